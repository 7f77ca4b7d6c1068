package emailsvc

import (
	"net/http"
	"net/mail"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/trezcool/studentportal/core"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type sendgridService struct {
	relay
	key  string
	from *sgmail.Email
}

var _ core.EmailService = (*sendgridService)(nil)

func NewSendgridService(conf *core.Config, tmpls *core.EmailTemplates, logger core.Logger) core.EmailService {
	return &sendgridService{
		relay: newRelay(conf, tmpls, logger),
		key:   conf.SendgridApiKey,
		from:  sgEmail(conf.DefaultFromEmail),
	}
}

func (svc sendgridService) SendMessages(messages ...*core.EmailMessage) {
	svc.dispatch(svc.send, messages)
}

// prepare builds the v3 payload: one personalization carrying every recipient.
func (svc sendgridService) prepare(msg core.EmailMessage) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = svc.subject(msg)
	p.AddTos(sgEmails(msg.To)...)
	p.AddCCs(sgEmails(msg.Cc)...)
	p.AddBCCs(sgEmails(msg.Bcc)...)

	v3 := sgmail.NewV3Mail().SetFrom(svc.from).AddPersonalizations(p)
	v3.AddContent(sgmail.NewContent("text/plain", msg.TextContent))
	if msg.HTMLContent != "" {
		v3.AddContent(sgmail.NewContent("text/html", msg.HTMLContent))
	}
	for _, at := range msg.Attachments {
		// already base64, as the v3 API expects
		v3.AddAttachment(sgmail.NewAttachment().
			SetContent(at.Content.String()).
			SetType(at.ContentType).
			SetFilename(at.Filename).
			SetDisposition("attachment"))
	}
	return v3
}

func (svc sendgridService) send(msg core.EmailMessage) error {
	req := sendgrid.GetRequest(svc.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(svc.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		return errors.Wrap(err, "calling sendgrid")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("sendgrid answered %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

func sgEmail(addr mail.Address) *sgmail.Email { return sgmail.NewEmail(addr.Name, addr.Address) }

func sgEmails(addrs []mail.Address) []*sgmail.Email {
	out := make([]*sgmail.Email, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, sgEmail(a))
	}
	return out
}
