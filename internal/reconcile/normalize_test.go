package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeNarrative(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text is lower-cased", in: "Tax Prep Fee", want: "tax prep fee"},
		{name: "markup is stripped", in: "<p>Tax <b>prep</b></p> fee", want: "tax prep fee"},
		{name: "whitespace runs collapse", in: "  Tax\n\tprep   fee ", want: "tax prep fee"},
		{name: "entities are decoded", in: "Audit&nbsp;&amp;&nbsp;review", want: "audit & review"},
		{name: "blank input", in: "   ", want: ""},
		{name: "markup only", in: "<br/><p></p>", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeNarrative(tt.in))
		})
	}
}

func TestDisplayLabel(t *testing.T) {
	assert.Equal(t, "Tax Prep fee", DisplayLabel("<div>Tax  Prep</div>fee"))
	assert.Equal(t, BlankLabel, DisplayLabel(""))
	assert.Equal(t, BlankLabel, DisplayLabel("<p> </p>"))
}
