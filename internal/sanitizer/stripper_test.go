package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTMLStripper_StripHTML(t *testing.T) {
	s := NewHTMLStripper()

	assert.Equal(t, "Tops", s.StripHTML("<b>Tops</b>"))
	assert.Equal(t, "", s.StripHTML(`<script>alert("x")</script>`))
}

func TestHTMLStripper_CleanText(t *testing.T) {
	s := NewHTMLStripper()

	tests := []struct{ in, want string }{
		{"  Men  ", "Men"},
		{"Shoes &amp; <i>Bags</i>", "Shoes & Bags"},
		{"Shoes & Bags", "Shoes & Bags"},
		{"T-Shirts\n\t<br/>Polos", "T-Shirts Polos"},
		{`<a href="javascript:x">Sale</a>`, "Sale"},
		{"Été", "Été"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.CleanText(tt.in), tt.in)
	}
}
