package report

import (
	"strings"
	"testing"

	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/hyperagg/pkg/aggregate"
)

func tableOf(pairs ...any) *aggregate.LocalTable {
	tbl := aggregate.NewLocalTable(0)
	for i := 0; i < len(pairs); i += 2 {
		tbl.Add([]byte(pairs[i].(string)), pairs[i+1].(float32))
	}

	return tbl
}

func render(tbl aggregate.Table) string {
	result := Finalize(tbl)

	return Format(Keys(result), result)
}

func TestFormat_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		tbl  *aggregate.LocalTable
		want string
	}{
		{
			name: "basic",
			tbl:  tableOf("Paris", float32(5.5), "Paris", float32(7.5)),
			want: "{Paris=5.5/6.5/7.5}",
		},
		{
			name: "multi key sorted",
			tbl:  tableOf("Tokyo", float32(30), "Delhi", float32(40), "Tokyo", float32(10)),
			want: "{Delhi=40.0/40.0/40.0,Tokyo=10.0/20.0/30.0}",
		},
		{
			name: "empty",
			tbl:  tableOf(),
			want: "{}",
		},
		{
			name: "negative values",
			tbl:  tableOf("Oslo", float32(-3.5), "Oslo", float32(-1.5)),
			want: "{Oslo=-3.5/-2.5/-1.5}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(tt.tbl))
		})
	}
}

func TestKeys_AscendingByteOrder(t *testing.T) {
	result := Finalize(tableOf(
		"b", float32(1), "B", float32(1), "a", float32(1), "Ä", float32(1), "aa", float32(1), "b", float32(2),
	))

	keys := Keys(result)
	assert.Equal(t, []string{"B", "a", "aa", "b", "Ä"}, keys)

	for i := 1; i < len(keys); i++ {
		assert.True(t, keys[i-1] < keys[i])
	}
}

func TestFinalize_OneEntryPerKey(t *testing.T) {
	tbl := aggregate.NewShardedTable()
	for i := range 100 {
		tbl.Add([]byte{byte('a' + i%5)}, float32(i))
	}

	result := Finalize(tbl)
	assert.Equal(t, 5, len(result))

	for _, stats := range result {
		assert.Equal(t, int64(20), stats.Count)
		assert.True(t, stats.Min <= stats.Mean && stats.Mean <= stats.Max)
	}
}

func TestAppendValue(t *testing.T) {
	tests := []struct {
		in   float32
		want string
	}{
		{0, "0.0"},
		{float32(-0.0), "0.0"},
		{-0.04, "0.0"},
		{1, "1.0"},
		{6.5, "6.5"},
		{0.25, "0.3"},
		{-0.25, "-0.2"},
		{12.34, "12.3"},
		{-99.99, "-100.0"},
		{1e6, "1000000.0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, string(AppendValue(nil, tt.in)))
	}
}

func TestSummary(t *testing.T) {
	result := Finalize(tableOf("Tokyo", float32(30), "Delhi", float32(40), "Tokyo", float32(10)))
	summary := NewSummary(Keys(result), result)

	assert.Equal(t, int64(3), summary.Records)
	assert.Equal(t, []Entry{
		{Key: "Delhi", Min: 40, Mean: 40, Max: 40, Count: 1},
		{Key: "Tokyo", Min: 10, Mean: 20, Max: 30, Count: 2},
	}, summary.Entries)
	assert.Equal(t, "{Delhi=40.0/40.0/40.0,Tokyo=10.0/20.0/30.0}", summary.String())
}

func TestFormat_NoTrailingSeparator(t *testing.T) {
	out := render(tableOf("a", float32(1), "b", float32(2), "c", float32(3)))

	assert.True(t, strings.HasPrefix(out, "{"))
	assert.True(t, strings.HasSuffix(out, "}"))
	assert.False(t, strings.Contains(out, ",}"))
	assert.Equal(t, 2, strings.Count(out, ","))
}
