// Package emailsvc implements core.EmailService backends.
package emailsvc

import (
	"fmt"

	"github.com/trezcool/studentportal/core"
)

// New returns the EmailService selected by conf.Email.Backend. Unknown backends fall back to the console.
func New(conf *core.Config, tmpls *core.EmailTemplates, logger core.Logger) core.EmailService {
	switch conf.Email.Backend {
	case core.EmailSendgrid:
		return NewSendgridService(conf, tmpls, logger)
	case core.EmailSMTP:
		return NewSMTPService(conf, tmpls, logger)
	}
	if conf.TestMode {
		return NewConsoleServiceMock(conf, tmpls, logger)
	}
	return NewConsoleService(conf, tmpls, logger)
}

// relay holds what the network backends share: rendering, filtering and error reporting.
type relay struct {
	subjPrefix string
	templates  *core.EmailTemplates
	logger     core.Logger
}

func newRelay(conf *core.Config, tmpls *core.EmailTemplates, logger core.Logger) relay {
	return relay{subjPrefix: "[" + conf.AppName + "] ", templates: tmpls, logger: logger}
}

// dispatch renders every message and hands the deliverable ones to send, one goroutine each.
func (r relay) dispatch(send func(core.EmailMessage) error, messages []*core.EmailMessage) {
	for _, msg := range messages {
		go func(msg *core.EmailMessage) {
			if err := msg.Render(r.templates); err != nil {
				r.logger.Error(fmt.Sprintf("rendering email: %v", err), err)
				return
			}
			if !msg.HasRecipients() || !(msg.HasContent() || msg.HasAttachments()) {
				return
			}
			if err := send(*msg); err != nil {
				r.logger.Error(fmt.Sprintf("sending email %q: %v", msg.Subject, err), err)
			}
		}(msg)
	}
}

func (r relay) subject(msg core.EmailMessage) string { return r.subjPrefix + msg.Subject }
