package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventplanner/internal/domain"
)

func TestTemplateRenderer_Invitation(t *testing.T) {
	r := NewTemplateRenderer()
	data := &domain.InvitationEmailData{
		Email:          "guest@x.com",
		EventID:        "65f0c0ffee0000000000abcd",
		Title:          "Product <Launch>",
		Date:           "2026-11-02",
		Time:           "18:00",
		Location:       "HQ",
		OrganizerEmail: "org@x.com",
	}

	subject, html, text, err := r.Render("invitation", data)
	require.NoError(t, err)
	assert.Equal(t, "You're invited: Product <Launch>", subject)
	assert.Contains(t, html, "Product &lt;Launch&gt;")
	assert.Contains(t, html, "(HQ)")
	assert.Contains(t, text, `"Product <Launch>" on 2026-11-02 at 18:00 (HQ)`)
	assert.Contains(t, text, "65f0c0ffee0000000000abcd")
}

func TestTemplateRenderer_omitsEmptyLocation(t *testing.T) {
	r := NewTemplateRenderer()
	_, _, text, err := r.Render("invitation", &domain.InvitationEmailData{Title: "Retro", Date: "d", Time: "t"})
	require.NoError(t, err)
	assert.NotContains(t, text, "()")
}

func TestTemplateRenderer_unknownTemplate(t *testing.T) {
	r := NewTemplateRenderer()
	_, _, _, err := r.Render("welcome", nil)
	require.Error(t, err)
}
