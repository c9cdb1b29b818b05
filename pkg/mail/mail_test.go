package mail_test

import (
	"context"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/mockshop/pkg/mail"
)

func TestBuilderRendersTemplate(t *testing.T) {
	rec := &mail.Recorder{}
	mail.Use(rec)
	defer mail.Use(nil)

	tmpl := template.Must(template.New("order").Parse(`<p>Order #{{.ID}} for {{.Name}}</p>`))
	err := mail.To("jane@example.com").
		Subject("Your order").
		Template(tmpl, map[string]any{"ID": 7, "Name": "<Jane>"}).
		Send(context.Background())
	require.NoError(t, err)

	sent := rec.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"jane@example.com"}, sent[0].To)
	assert.True(t, sent[0].HTML)
	assert.Equal(t, "<p>Order #7 for &lt;Jane&gt;</p>", sent[0].Body)
}

func TestSendWithoutRecipientsFails(t *testing.T) {
	err := mail.To().Subject("x").Text("y").Send(context.Background())
	assert.Error(t, err)
}
