package email

import (
	"testing"

	"guestlist/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRenderer_Invitation(t *testing.T) {
	r := NewTemplateRenderer()
	data := &domain.InvitationEmailData{
		Email:     "grace@example.com",
		OwnerName: "Olive",
		EventName: "Garden Party",
		VisitURL:  "https://guests.example.com/event/ev-1",
	}

	subject, html, text, err := r.Render("invitation", data)
	require.NoError(t, err)
	assert.Equal(t, "You're invited to Garden Party", subject)
	assert.Contains(t, html, "Garden Party")
	assert.Contains(t, html, "https://guests.example.com/event/ev-1")
	assert.Contains(t, text, "Olive has invited you to Garden Party.")
	assert.Contains(t, text, "https://guests.example.com/event/ev-1")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	r := NewTemplateRenderer()
	_, _, _, err := r.Render("nope", nil)
	require.Error(t, err)
}
