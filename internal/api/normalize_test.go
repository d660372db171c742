package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNormalizeString_FieldPriority(t *testing.T) {
	desc := MustLookup(OpGenerate)

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "generatedEmail wins over content and reply",
			body: `{"generatedEmail":"first","content":"second","reply":"third"}`,
			want: "first",
		},
		{
			name: "content wins over reply",
			body: `{"content":"second","reply":"third"}`,
			want: "second",
		},
		{
			name: "reply as last known field",
			body: `{"reply":"third"}`,
			want: "third",
		},
		{
			name: "bare JSON string",
			body: `"just text"`,
			want: "just text",
		},
		{
			name: "raw textual body",
			body: "Dear team,\n\nplease find attached.",
			want: "Dear team,\n\nplease find attached.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Normalize(desc, []byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, ShapeString, p.Shape)
			assert.Equal(t, tt.want, p.Text)
		})
	}
}

func TestNormalizeString_Unrecognized(t *testing.T) {
	desc := MustLookup(OpGenerate)

	tests := []struct {
		name string
		body string
	}{
		{name: "object without known fields", body: `{"foo":"bar"}`},
		{name: "array payload", body: `["a","b"]`},
		{name: "empty body", body: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(desc, []byte(tt.body))
			require.Error(t, err)
			assert.Equal(t, KindUnrecognizedShape, KindOf(err))
		})
	}
}

func TestNormalizeObject_RequiredKeys(t *testing.T) {
	desc := MustLookup(OpDetectIntent)

	p, err := Normalize(desc, []byte(`{"intent":"COMPLAINT","reason":"angry wording"}`))
	require.NoError(t, err)
	assert.Equal(t, ShapeObject, p.Shape)

	_, err = Normalize(desc, []byte(`{"reason":"no intent field"}`))
	require.Error(t, err)
	assert.Equal(t, KindUnrecognizedShape, KindOf(err))

	// A present-but-null required key is treated as missing.
	_, err = Normalize(desc, []byte(`{"intent":null}`))
	require.Error(t, err)
	assert.Equal(t, KindUnrecognizedShape, KindOf(err))
}

func TestNormalizeObject_EmptySliceDefaults(t *testing.T) {
	desc := MustLookup(OpSummarize)

	p, err := Normalize(desc, []byte(`{"summary":"short"}`))
	require.NoError(t, err)

	var out struct {
		ActionItems []string `json:"actionItems"`
		Deadlines   []string `json:"deadlines"`
	}
	require.NoError(t, json.Unmarshal(p.Object, &out))
	assert.NotNil(t, out.ActionItems)
	assert.NotNil(t, out.Deadlines)
	assert.Empty(t, out.ActionItems)
	assert.Empty(t, out.Deadlines)

	// Provided lists pass through untouched.
	p, err = Normalize(desc, []byte(`{"summary":"s","actionItems":["call back"],"deadlines":null}`))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(p.Object, &out))
	assert.Equal(t, []string{"call back"}, out.ActionItems)
	assert.Empty(t, out.Deadlines)
}

func TestNormalizeObject_LenientWrapsText(t *testing.T) {
	desc := MustLookup(OpSendEmail)

	p, err := Normalize(desc, []byte("Email sent successfully!"))
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, json.Unmarshal(p.Object, &out))
	assert.Equal(t, "Email sent successfully!", out["message"])

	// A real object passes through.
	p, err = Normalize(desc, []byte(`{"message":"ok","id":12}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"ok","id":12}`, string(p.Object))
}

func TestNormalizeObject_StrictRejectsText(t *testing.T) {
	_, err := Normalize(MustLookup(OpDetectIntent), []byte("plain text"))
	require.Error(t, err)
	assert.Equal(t, KindUnrecognizedShape, KindOf(err))
}

func TestNormalizeList(t *testing.T) {
	desc := MustLookup(OpGenerateSubject)

	p, err := Normalize(desc, []byte(`["Subject A","Subject B"]`))
	require.NoError(t, err)
	assert.Equal(t, ShapeList, p.Shape)

	// Empty list is a valid result, not an error.
	p, err = Normalize(desc, []byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`[]`), p.List)

	_, err = Normalize(desc, []byte(`{"not":"a list"}`))
	require.Error(t, err)
	assert.Equal(t, KindUnrecognizedShape, KindOf(err))
}

// Normalization must be a pure function of descriptor and body.
func TestNormalize_Deterministic(t *testing.T) {
	descs := []Descriptor{
		MustLookup(OpGenerate),
		MustLookup(OpSummarize),
		MustLookup(OpSendEmail),
		MustLookup(OpHistory),
	}

	rapid.Check(t, func(t *rapid.T) {
		desc := rapid.SampledFrom(descs).Draw(t, "desc")
		body := rapid.SliceOfN(rapid.Byte(), 0, 200).Draw(t, "body")

		p1, err1 := Normalize(desc, body)
		p2, err2 := Normalize(desc, body)

		if (err1 == nil) != (err2 == nil) {
			t.Fatalf("determinism violated: err1=%v err2=%v", err1, err2)
		}
		if err1 != nil {
			if KindOf(err1) != KindOf(err2) {
				t.Fatalf("error kinds differ: %v vs %v", KindOf(err1), KindOf(err2))
			}
			return
		}
		if p1.Shape != p2.Shape || p1.Text != p2.Text ||
			string(p1.Object) != string(p2.Object) || string(p1.List) != string(p2.List) {
			t.Fatalf("payloads differ for identical input")
		}
	})
}

func TestResolve(t *testing.T) {
	env := Resolve(Payload{Shape: ShapeString, Text: "hi"}, nil)
	assert.Equal(t, StatusSuccess, env.Status)
	assert.Equal(t, "hi", env.Payload.Text)
	assert.Equal(t, KindNone, env.ErrKind)

	env = Resolve(Payload{}, &Error{Kind: KindServer, Status: 500, Message: "boom"})
	assert.Equal(t, StatusError, env.Status)
	assert.Equal(t, KindServer, env.ErrKind)
	assert.Equal(t, "boom", env.ErrMessage)
}
