package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want Dict
	}{
		{
			name: "simple",
			in:   []string{"country:Belgium", "gender:unknown"},
			want: Dict{"country": "Belgium", "gender": "unknown"},
		},
		{
			name: "embedded colon",
			in:   []string{"coupon:AB:12"},
			want: Dict{"coupon": "AB:12"},
		},
		{
			name: "quotes stripped",
			in:   []string{`note:"hello world"`},
			want: Dict{"note": "hello world"},
		},
		{
			name: "quoted value with colon",
			in:   []string{`start:"08:30"`},
			want: Dict{"start": "08:30"},
		},
		{
			name: "only one pair of quotes",
			in:   []string{`q:""x""`},
			want: Dict{"q": `"x"`},
		},
		{
			name: "unbalanced quote kept",
			in:   []string{`q:"x`},
			want: Dict{"q": `"x`},
		},
		{
			name: "no colon",
			in:   []string{"flag"},
			want: Dict{"flag": ""},
		},
		{
			name: "last occurrence wins",
			in:   []string{"city:Ghent", "city:Antwerp"},
			want: Dict{"city": "Antwerp"},
		},
		{
			name: "nil",
			in:   nil,
			want: Dict{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.in))
		})
	}
}

func TestDecodeIsIdempotent(t *testing.T) {
	inputs := [][]string{
		{"country:Belgium", "gender:unknown"},
		{"coupon:AB:12"},
		{`note:"hello world"`},
		{`q:""x""`},
		{"a:1", "a:2", `b:"c:d"`},
		{},
	}

	for _, in := range inputs {
		once := Decode(in)
		assert.Equal(t, once, Decode(Encode(once)), "input %v", in)
	}
}

func TestEncodeIsSorted(t *testing.T) {
	assert.Equal(t, []string{"a:1", "b:2"}, Encode(Dict{"b": "2", "a": "1"}))
}

func TestSet(t *testing.T) {
	set := Set([]string{"sent:yes", "sent:yes", "kind:welcome"})
	assert.Len(t, set, 2)
	assert.Contains(t, set, "kind:welcome")
}

func TestEvaluationSteps(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []EvaluationStep
	}{
		{
			name: "no evaluation tags",
			in:   []string{"coupon:AB:12"},
			want: []EvaluationStep{},
		},
		{
			name: "ordered by step with final last",
			in:   []string{"intermediate.0:pending", "intermediate.2:not_approved", "other:x", "intermediate.1:approved"},
			want: []EvaluationStep{
				{Number: 1, Status: EvaluationApproved, Icon: "filter_1", Color: "dark"},
				{Number: 2, Status: EvaluationNotApproved, Icon: "filter_2", Color: "orange-8"},
				{Number: 0, Status: EvaluationPending, Icon: "library_add_check", Color: "grey-4"},
			},
		},
		{
			name: "double digits sort numerically",
			in:   []string{"intermediate.10:approved", "intermediate.9:approved"},
			want: []EvaluationStep{
				{Number: 9, Status: EvaluationApproved, Icon: "filter_9", Color: "dark"},
				{Number: 10, Status: EvaluationApproved, Icon: "filter_10", Color: "dark"},
			},
		},
		{
			name: "unknown status has no color",
			in:   []string{"intermediate.3:archived"},
			want: []EvaluationStep{{Number: 3, Status: "archived", Icon: "filter_3"}},
		},
		{
			name: "step without a number is skipped",
			in:   []string{"intermediate.x:approved", "intermediate.:approved"},
			want: []EvaluationStep{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluationSteps(tt.in))
		})
	}
}
