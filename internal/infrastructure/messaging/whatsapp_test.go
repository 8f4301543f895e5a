package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhatsAppLink(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		text  string
		want  string
	}{
		{
			name:  "formatted number",
			phone: "(11) 98877-6655",
			text:  "Olá Maria, tudo bem?",
			want:  "https://wa.me/5511988776655?text=Ol%C3%A1+Maria%2C+tudo+bem%3F",
		},
		{
			name:  "newlines are escaped",
			phone: "11988776655",
			text:  "a\nb",
			want:  "https://wa.me/5511988776655?text=a%0Ab",
		},
		{
			name:  "no text",
			phone: "11988776655",
			want:  "https://wa.me/5511988776655",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WhatsAppLink(tt.phone, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLinkBuilder_CountryCode(t *testing.T) {
	got, err := NewLinkBuilder("+351").Link("912 345 678", "oi")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/351912345678?text=oi", got)

	got, err = NewLinkBuilder("").Link("1", "")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/551", got)
}

func TestLinkBuilder_RejectsEmptyPhone(t *testing.T) {
	_, err := WhatsAppLink("sem número", "oi")
	assert.ErrorIs(t, err, ErrNoPhoneDigits)
}
