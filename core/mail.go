package core

import (
	"bytes"
	"encoding/base64"
	htmltmpl "html/template"
	"io"
	"io/fs"
	"net/http"
	"net/mail"
	"os"
	"path"
	"path/filepath"
	"strings"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

const baseTemplate = "base"

type (
	tmplCacheEntry struct {
		text *texttmpl.Template
		html *htmltmpl.Template
	}

	// EmailTemplates is the parsed set of e-mail templates, keyed by name (file name without ext).
	// Every template is parsed together with its `_base` layout.
	EmailTemplates struct {
		appName         string
		frontendBaseURL string
		cache           map[string]*tmplCacheEntry
	}

	Attachment struct {
		Content     *bytes.Buffer
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		BodyStr     string // simple text/plain, non-templated content
		Attachments []Attachment

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	ContextData struct {
		AppName         string
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// ParseEmailTemplates parses the `*.txt` and `*.gohtml` templates found in dir.
// Files starting with "_" are layouts.
func ParseEmailTemplates(fsys fs.FS, dir string, conf *Config) (*EmailTemplates, error) {
	tmpls := &EmailTemplates{
		appName:         conf.AppName,
		frontendBaseURL: conf.FrontendBaseURL,
		cache:           make(map[string]*tmplCacheEntry),
	}
	strict := conf.Debug || conf.TestMode

	fps, err := fs.Glob(fsys, path.Join(dir, "*"))
	if err != nil {
		return nil, errors.Wrap(err, "listing email templates")
	}

	for _, fp := range fps {
		fname := path.Base(fp)
		ext := path.Ext(fname)
		if strings.HasPrefix(fname, "_") || !(ext == ".txt" || ext == ".gohtml") {
			continue
		}
		name := strings.TrimSuffix(fname, ext)
		entry, ok := tmpls.cache[name]
		if !ok {
			entry = new(tmplCacheEntry)
			tmpls.cache[name] = entry
		}

		if ext == ".txt" {
			tmpl, err := texttmpl.ParseFS(fsys, path.Join(dir, "_base.txt"), fp)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing %s", fname)
			}
			if strict {
				tmpl = tmpl.Option("missingkey=error")
			}
			entry.text = tmpl
		} else {
			tmpl, err := htmltmpl.ParseFS(fsys, path.Join(dir, "_base.gohtml"), fp)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing %s", fname)
			}
			if strict {
				tmpl = tmpl.Option("missingkey=error")
			}
			entry.html = tmpl
		}
	}
	return tmpls, nil
}

// Has reports whether a template with the given name was parsed.
func (t *EmailTemplates) Has(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.cache[name]
	return ok
}

// executor is satisfied by both *texttmpl.Template and *htmltmpl.Template.
type executor interface {
	ExecuteTemplate(w io.Writer, name string, data interface{}) error
}

func (e *tmplCacheEntry) executor(html bool) executor {
	if html {
		if e.html != nil {
			return e.html
		}
	} else if e.text != nil {
		return e.text
	}
	return nil
}

// execute renders the text or html variant of the message template; "" when there is none.
func (m *EmailMessage) execute(tmpls *EmailTemplates, html bool) (string, error) {
	entry, ok := tmpls.cache[m.TemplateName]
	if !ok {
		return "", nil
	}
	tmpl := entry.executor(html)
	if tmpl == nil {
		return "", nil
	}

	var buff bytes.Buffer
	data := ContextData{AppName: tmpls.appName, FrontendBaseURL: tmpls.frontendBaseURL, Data: m.TemplateData}
	if err := tmpl.ExecuteTemplate(&buff, baseTemplate, data); err != nil {
		return "", err
	}
	return buff.String(), nil
}

// Render fills TextContent and HTMLContent from BodyStr or the named template.
func (m *EmailMessage) Render(tmpls *EmailTemplates) (err error) {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
	}
	if m.TemplateName == "" || tmpls == nil {
		return nil
	}
	if !tmpls.Has(m.TemplateName) {
		return errors.Errorf("unknown email template %q", m.TemplateName)
	}

	if m.BodyStr == "" {
		if m.TextContent, err = m.execute(tmpls, false); err != nil {
			return errors.Wrap(err, "rendering text/plain")
		}
	}
	m.HTMLContent, err = m.execute(tmpls, true)
	return errors.Wrap(err, "rendering text/html")
}

func (m *EmailMessage) Attach(r io.Reader, filename string, ct ...string) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	at := Attachment{Filename: filename, Content: new(bytes.Buffer)}
	encoder := base64.NewEncoder(base64.StdEncoding, at.Content)
	if _, err := encoder.Write(content); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}

	if len(ct) > 0 {
		at.ContentType = ct[0]
	} else {
		at.ContentType = http.DetectContentType(content)
	}
	m.Attachments = append(m.Attachments, at)
	return nil
}

func (m *EmailMessage) AttachFile(path string, contentType ...string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return m.Attach(f, filepath.Base(path), contentType...)
}

func (m *EmailMessage) HasRecipients() bool  { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool     { return (m.TextContent != "") || (m.HTMLContent != "") }
func (m *EmailMessage) HasAttachments() bool { return len(m.Attachments) > 0 }
