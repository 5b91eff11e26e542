package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsWord(t *testing.T) {
	tests := []struct {
		name string
		text string
		word string
		want bool
	}{
		{"exact", "white sneakers", "white", true},
		{"at start", "white sneakers", "sneakers", true},
		{"substring of longer word", "off-whiteish shade", "white", false},
		{"hyphen is a boundary", "off-white shade", "white", true},
		{"missing", "blue sneakers", "white", false},
		{"empty word", "anything", "", false},
		{"whole text", "white", "white", true},
		{"second occurrence matches", "whitewash white", "white", true},
		{"digit boundary blocks", "white2 shoes", "white", false},
		{"phrase", "new balance 574", "new balance", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsWord(tt.text, tt.word))
		})
	}
}

func TestGender(t *testing.T) {
	assert.Equal(t, "women", Gender("running shoes for women"))
	assert.Equal(t, "women", Gender("women's leather jacket"))
	assert.Equal(t, "men", Gender("men's leather jacket"))
	// "women" contains "men" as a substring; word boundaries keep it women.
	assert.Equal(t, "women", Gender("womens sneakers"))
	assert.Equal(t, "unisex", Gender("leather jacket"))
}

func TestMatchAll(t *testing.T) {
	found := MatchAll("white and black leather sneakers", Colors)
	assert.Equal(t, []string{"black", "white"}, found)

	assert.Nil(t, MatchAll("plain text", Brands))
}

func TestMatchFirst(t *testing.T) {
	// Order in the vocabulary decides: "sneakers" precedes "shoes".
	assert.Equal(t, "sneakers", MatchFirst("sneakers and shoes", ProductTypes))
	assert.Equal(t, "", MatchFirst("nothing relevant", ProductTypes))
}
