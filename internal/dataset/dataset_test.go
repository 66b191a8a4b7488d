package dataset

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCell(t *testing.T) {
	cases := []struct {
		in   string
		kind Kind
		want string
	}{
		{"", KindNull, ""},
		{"true", KindBool, "true"},
		{"FALSE", KindBool, "false"},
		{"True", KindString, "True"},
		{"42", KindNumber, "42"},
		{"-3.5", KindNumber, "-3.5"},
		{".5", KindNumber, "0.5"},
		{"1e3", KindNumber, "1000"},
		{" 7 ", KindNumber, "7"},
		{"R$ 1.200,50", KindString, "R$ 1.200,50"},
		{"1.2.3", KindString, "1.2.3"},
		{"1e999", KindNumber, "Infinity"},
	}
	for _, tc := range cases {
		c := ParseCell(tc.in)
		assert.Equal(t, tc.kind, c.Kind(), "kind of %q", tc.in)
		assert.Equal(t, tc.want, c.String(), "string of %q", tc.in)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1", FormatNumber(1))
	assert.Equal(t, "0.1", FormatNumber(0.1))
	assert.Equal(t, "1e+21", FormatNumber(1e21))
	assert.Equal(t, "1e-7", FormatNumber(1e-7))
	assert.Equal(t, "-2.5e-10", FormatNumber(-2.5e-10))
	assert.Equal(t, "1.5e+300", FormatNumber(1.5e300))
	assert.Equal(t, "5e-324", FormatNumber(5e-324))
	assert.Equal(t, "0", FormatNumber(0))
}

func TestRowJSONKeepsKeyOrder(t *testing.T) {
	var r Row
	require.NoError(t, json.Unmarshal([]byte(`{"zeta":1,"alpha":"x","mid":null,"flag":true,"nested":{"a":[1, 2]}}`), &r))
	assert.Equal(t, []string{"zeta", "alpha", "mid", "flag", "nested"}, r.Keys())
	assert.Equal(t, KindNumber, r.Get("zeta").Kind())
	assert.Equal(t, KindNull, r.Get("mid").Kind())
	assert.Equal(t, KindBool, r.Get("flag").Kind())
	assert.Equal(t, `{"a":[1,2]}`, r.Get("nested").String())

	out, err := json.Marshal(&r)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":"x","mid":null,"flag":true,"nested":"{\"a\":[1,2]}"}`, string(out))
}

func TestValidRowsAndColumns(t *testing.T) {
	ds := New("t")
	ds.Append(NewRow().Set("", String("idx")).Set("name", String("a")).Set("v", Number(1)))
	ds.Append(NewRow().Set("name", String("")).Set("v", Null()))
	ds.Append(NewRow().Set("name", Null()).Set("v", Bool(false)))

	valid := ds.ValidRows()
	require.Len(t, valid, 2)
	assert.Equal(t, []string{"name", "v"}, Columns(valid))
	assert.Nil(t, Columns(nil))
	assert.Equal(t, KindNull, valid[1].Get("missing").Kind())
}

func TestFingerprintIgnoresNameButNotOrder(t *testing.T) {
	a := New("a")
	a.Append(NewRow().Set("x", Number(1)).Set("y", String("b")))
	b := New("b")
	b.Append(NewRow().Set("x", Number(1)).Set("y", String("b")))
	c := New("a")
	c.Append(NewRow().Set("y", String("b")).Set("x", Number(1)))

	fa, err := a.Fingerprint()
	require.NoError(t, err)
	fb, err := b.Fingerprint()
	require.NoError(t, err)
	fc, err := c.Fingerprint()
	require.NoError(t, err)

	assert.Equal(t, fa, fb)
	assert.NotEqual(t, fa, fc)
}

func TestDatasetJSONRoundTripShape(t *testing.T) {
	var ds Dataset
	require.NoError(t, json.Unmarshal([]byte(`[{"v":10},null,{"v":"12"}]`), &ds))
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, 0, ds.Rows[1].Len())
	assert.Len(t, ds.ValidRows(), 2)
}

func TestRowJSONOverflowingNumber(t *testing.T) {
	var r Row
	require.NoError(t, json.Unmarshal([]byte(`{"big":1e999,"small":-1e999,"ok":2}`), &r))
	big, ok := r.Get("big").Num()
	require.True(t, ok)
	assert.True(t, math.IsInf(big, 1))
	small, _ := r.Get("small").Num()
	assert.True(t, math.IsInf(small, -1))
	assert.Equal(t, Number(2), r.Get("ok"))

	b, err := json.Marshal(&r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"big":null,"small":null,"ok":2}`, string(b))
}
