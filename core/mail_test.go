package core_test

import (
	"bytes"
	"encoding/base64"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studentportal/core"
	appfs "github.com/trezcool/studentportal/fs"
)

func parseTemplates(t *testing.T) *core.EmailTemplates {
	conf := &core.Config{AppName: "Student Portal", FrontendBaseURL: "http://portal.test", TestMode: true}
	tmpls, err := core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf)
	require.NoError(t, err)
	return tmpls
}

func TestEmailMessage_Render(t *testing.T) {
	tmpls := parseTemplates(t)
	assert.True(t, tmpls.Has("welcome"))
	assert.False(t, tmpls.Has("_base"))

	t.Run("template", func(t *testing.T) {
		msg := core.EmailMessage{
			To:           []mail.Address{{Address: "student@test.cd"}},
			TemplateName: "welcome",
			TemplateData: map[string]interface{}{"Email": "student@test.cd"},
		}
		require.NoError(t, msg.Render(tmpls))
		assert.Contains(t, msg.TextContent, "Hi student@test.cd")
		assert.Contains(t, msg.TextContent, "http://portal.test/login")
		assert.Contains(t, msg.HTMLContent, `<a href="http://portal.test/login">`)
		assert.Contains(t, msg.HTMLContent, "Student Portal")
		assert.True(t, msg.HasContent())
	})

	t.Run("missing data", func(t *testing.T) {
		msg := core.EmailMessage{TemplateName: "welcome", TemplateData: map[string]interface{}{}}
		assert.Error(t, msg.Render(tmpls))
	})

	t.Run("unknown template", func(t *testing.T) {
		msg := core.EmailMessage{TemplateName: "lol"}
		assert.Error(t, msg.Render(tmpls))
	})

	t.Run("plain body", func(t *testing.T) {
		msg := core.EmailMessage{BodyStr: "hello"}
		require.NoError(t, msg.Render(tmpls))
		assert.Equal(t, "hello", msg.TextContent)
		assert.Empty(t, msg.HTMLContent)
	})
}

func TestEmailMessage_Attach(t *testing.T) {
	var msg core.EmailMessage
	require.NoError(t, msg.Attach(strings.NewReader("hello, world"), "hello.txt"))
	require.True(t, msg.HasAttachments())

	at := msg.Attachments[0]
	assert.Equal(t, "hello.txt", at.Filename)
	assert.Equal(t, "text/plain; charset=utf-8", at.ContentType)
	decoded, err := base64.StdEncoding.DecodeString(at.Content.String())
	require.NoError(t, err)
	assert.True(t, bytes.Equal([]byte("hello, world"), decoded))

	require.NoError(t, msg.Attach(strings.NewReader("{}"), "data.json", "application/json"))
	assert.Equal(t, "application/json", msg.Attachments[1].ContentType)
}
