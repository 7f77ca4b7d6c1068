package emailsvc

import (
	"fmt"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studentportal/core"
)

// SentMessages records the messages "sent" by the console mock.
var (
	SentMessages []core.EmailMessage
	sentMu       sync.Mutex
)

// ResetSentMessages clears SentMessages.
func ResetSentMessages() {
	sentMu.Lock()
	SentMessages = SentMessages[:0]
	sentMu.Unlock()
}

// GetSentMessages returns a copy of SentMessages.
func GetSentMessages() []core.EmailMessage {
	sentMu.Lock()
	defer sentMu.Unlock()
	return append([]core.EmailMessage(nil), SentMessages...)
}

type consoleService struct {
	defaultFromEmail mail.Address
	subjPrefix       string
	templates        *core.EmailTemplates
	logger           core.Logger
	disableOutput    bool
}

var _ core.EmailService = (*consoleService)(nil)

func NewConsoleService(conf *core.Config, tmpls *core.EmailTemplates, logger core.Logger) core.EmailService {
	return &consoleService{
		defaultFromEmail: conf.DefaultFromEmail,
		subjPrefix:       "[" + conf.AppName + "] ",
		templates:        tmpls,
		logger:           logger,
	}
}

func (svc consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		go svc.sendMessage(msg)
	}
}

func (svc consoleService) sendMessage(msg *core.EmailMessage) {
	if err := msg.Render(svc.templates); err != nil {
		svc.logger.Error(fmt.Sprintf("rendering email: %v", err), err)
		return
	}
	if msg.HasRecipients() && (msg.HasContent() || msg.HasAttachments()) {
		if err := svc.send(*msg); err != nil {
			svc.logger.Error(fmt.Sprintf("writing email: %v", err), err)
			return
		}
		sentMu.Lock()
		SentMessages = append(SentMessages, *msg)
		sentMu.Unlock()
	}
}

// send renders msg as a MIME document and logs it.
// Attachments switch the root part to multipart/mixed, with the alternative bodies nested in it.
func (svc consoleService) send(msg core.EmailMessage) error {
	doc := new(strings.Builder)
	headers := [][2]string{
		{"From", svc.defaultFromEmail.String()},
		{"To", joinAddresses(msg.To)},
		{"CC", joinAddresses(msg.Cc)},
		{"BCC", joinAddresses(msg.Bcc)},
		{"Subject", svc.subjPrefix + msg.Subject},
		{"Date", time.Now().Format(time.RFC1123Z)},
		{"MIME-Version", "1.0"},
	}
	for _, h := range headers {
		_, _ = fmt.Fprintf(doc, "%s: %s\r\n", h[0], h[1])
	}

	alt := multipart.NewWriter(doc)
	if !msg.HasAttachments() {
		_, _ = fmt.Fprintf(doc, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", alt.Boundary())
		if err := writeBodies(alt, msg); err != nil {
			return err
		}
		return svc.output(doc.String())
	}

	mixed := multipart.NewWriter(doc)
	_, _ = fmt.Fprintf(doc, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", mixed.Boundary())
	hdr := textproto.MIMEHeader{"Content-Type": {"multipart/alternative; boundary=" + alt.Boundary()}}
	if _, err := mixed.CreatePart(hdr); err != nil {
		return errors.Wrap(err, "creating multipart/alternative part")
	}
	if err := writeBodies(alt, msg); err != nil {
		return err
	}
	if err := writeAttachments(mixed, msg.Attachments); err != nil {
		return err
	}
	return svc.output(doc.String())
}

func (svc consoleService) output(doc string) error {
	if !svc.disableOutput {
		svc.logger.Info(doc)
	}
	return nil
}

// writeBodies writes the text/plain and (optional) text/html parts, then closes w.
func writeBodies(w *multipart.Writer, msg core.EmailMessage) error {
	bodies := []struct{ ct, content string }{{"text/plain", msg.TextContent}}
	if msg.HTMLContent != "" {
		bodies = append(bodies, struct{ ct, content string }{"text/html", msg.HTMLContent})
	}
	for _, b := range bodies {
		part, err := w.CreatePart(textproto.MIMEHeader{"Content-Type": {b.ct + "; charset=utf-8"}})
		if err != nil {
			return errors.Wrapf(err, "creating %s part", b.ct)
		}
		_, _ = fmt.Fprintf(part, "%s\r\n", b.content)
	}
	return errors.Wrap(w.Close(), "closing multipart/alternative")
}

// writeAttachments writes the base64 attachments, then closes w.
func writeAttachments(w *multipart.Writer, attachments []core.Attachment) error {
	for _, at := range attachments {
		part, err := w.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {at.ContentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", at.Filename)},
		})
		if err != nil {
			return errors.Wrapf(err, "attaching %s", at.Filename)
		}
		_, _ = fmt.Fprintf(part, "%s\r\n", at.Content.String())
	}
	return errors.Wrap(w.Close(), "closing multipart/mixed")
}

func joinAddresses(addrs []mail.Address) string {
	return strings.Join(addressList(addrs), ", ")
}

type consoleServiceMock struct {
	consoleService
}

func NewConsoleServiceMock(conf *core.Config, tmpls *core.EmailTemplates, logger core.Logger) core.EmailService {
	return &consoleServiceMock{
		consoleService: consoleService{
			defaultFromEmail: conf.DefaultFromEmail,
			subjPrefix:       "[" + conf.AppName + "] ",
			templates:        tmpls,
			logger:           logger,
			disableOutput:    true,
		},
	}
}

func (svc *consoleServiceMock) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		svc.sendMessage(msg) // synchronous, so tests can inspect SentMessages right away
	}
}
