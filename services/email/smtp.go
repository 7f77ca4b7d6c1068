package emailsvc

import (
	"bytes"
	"encoding/base64"
	"net/mail"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/pkg/errors"

	"github.com/trezcool/studentportal/core"
)

type smtpService struct {
	relay
	addr string
	auth smtp.Auth
	from mail.Address
}

var _ core.EmailService = (*smtpService)(nil)

func NewSMTPService(conf *core.Config, tmpls *core.EmailTemplates, logger core.Logger) core.EmailService {
	var auth smtp.Auth
	if conf.Email.SMTPUser != "" {
		auth = smtp.PlainAuth("", conf.Email.SMTPUser, conf.Email.SMTPPassword, conf.Email.SMTPHost)
	}
	return &smtpService{
		relay: newRelay(conf, tmpls, logger),
		addr:  conf.Email.Address(),
		auth:  auth,
		from:  conf.DefaultFromEmail,
	}
}

func (svc smtpService) SendMessages(messages ...*core.EmailMessage) {
	svc.dispatch(svc.send, messages)
}

func (svc smtpService) send(msg core.EmailMessage) error {
	e, err := svc.prepare(msg)
	if err != nil {
		return err
	}
	return errors.Wrap(e.Send(svc.addr, svc.auth), "sending over smtp")
}

func (svc smtpService) prepare(msg core.EmailMessage) (*email.Email, error) {
	e := email.NewEmail()
	e.From = svc.from.String()
	e.To = addressList(msg.To)
	e.Cc = addressList(msg.Cc)
	e.Bcc = addressList(msg.Bcc)
	e.Subject = svc.subject(msg)
	e.Text = []byte(msg.TextContent)
	if msg.HTMLContent != "" {
		e.HTML = []byte(msg.HTMLContent)
	}

	for _, at := range msg.Attachments {
		// core.Attachment content is base64 encoded
		content, err := base64.StdEncoding.DecodeString(at.Content.String())
		if err != nil {
			return nil, errors.Wrapf(err, "decoding attachment %s", at.Filename)
		}
		if _, err = e.Attach(bytes.NewReader(content), at.Filename, at.ContentType); err != nil {
			return nil, errors.Wrapf(err, "attaching %s", at.Filename)
		}
	}
	return e, nil
}

func addressList(addrs []mail.Address) []string {
	list := make([]string, 0, len(addrs))
	for _, a := range addrs {
		list = append(list, a.String())
	}
	return list
}
