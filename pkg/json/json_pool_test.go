package json

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Value float64  `json:"value"`
	Tags  []string `json:"tags"`
}

func generateTestRecords(n int) []interface{} {
	records := make([]interface{}, n)
	for i := range records {
		records[i] = &testRecord{
			ID:    string(rune('a' + i%26)),
			Name:  "record <x>",
			Value: float64(i) * 1.5,
			Tags:  []string{"t1", "t2"},
		}
	}
	return records
}

func TestBuffersAreReset(t *testing.T) {
	buf := GetBuffer()
	buf.WriteString("leftover")
	PutBuffer(buf)

	again := GetBuffer()
	defer PutBuffer(again)
	assert.Zero(t, again.Len())
	PutBuffer(nil)
}

func TestEncodeIndent(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, EncodeIndent(&out, map[string]int{"a": 1}, "", "  "))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", out.String())
}

func TestMarshalLines(t *testing.T) {
	data, err := MarshalLines(generateTestRecords(3))
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.Len(t, lines, 3)
	var rec testRecord
	require.NoError(t, json.Unmarshal(lines[2], &rec))
	assert.Equal(t, "c", rec.ID)
	assert.Equal(t, "record <x>", rec.Name, "HTML is not escaped")
}

func TestStreamingEncoderArray(t *testing.T) {
	var out bytes.Buffer
	se := NewStreamingEncoder(&out, true)
	for _, r := range generateTestRecords(4) {
		require.NoError(t, se.Encode(r))
	}
	require.NoError(t, se.Close())

	var decoded []testRecord
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Len(t, decoded, 4)
}

func TestStreamingEncoderEmptyArray(t *testing.T) {
	var out bytes.Buffer
	se := NewStreamingEncoder(&out, true)
	require.NoError(t, se.Close())
	assert.Equal(t, "[]", out.String())
}

func TestStreamingEncoderLines(t *testing.T) {
	var out bytes.Buffer
	se := NewStreamingEncoder(&out, false)
	require.NoError(t, se.Encode(1))
	require.NoError(t, se.Encode("two"))
	require.NoError(t, se.Close())
	assert.Equal(t, "1\n\"two\"\n", out.String())
}

func TestMarshalMatchesStdlib(t *testing.T) {
	rec := generateTestRecords(1)[0]
	want, err := json.Marshal(rec)
	require.NoError(t, err)
	got, err := Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))

	var back testRecord
	require.NoError(t, Unmarshal(got, &back))
	assert.Equal(t, *rec.(*testRecord), back)
}

func BenchmarkStdMarshal(b *testing.B) {
	records := generateTestRecords(100)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, r := range records {
			if _, err := json.Marshal(r); err != nil {
				b.Fatal(err)
			}
		}
	}
}

func BenchmarkMarshalLines(b *testing.B) {
	records := generateTestRecords(100)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := MarshalLines(records); err != nil {
			b.Fatal(err)
		}
	}
}
