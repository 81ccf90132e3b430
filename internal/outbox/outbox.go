// Package outbox implements simulated mail delivery. Sending a
// message validates it, renders a proper RFC 5322 document, and files
// the result in the local sent folder. No SMTP connection is ever
// made; the rendered raw message exists so the rest of the app can
// treat sent mail exactly like received mail.
package outbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"

	"github.com/darkmailhq/darkmail/internal/model"
)

// Store is the slice of the persistence layer the outbox needs.
type Store interface {
	SaveMessage(ctx context.Context, msg model.Message) error
	CreateNotification(ctx context.Context, n model.Notification) error
}

// Options describes one outgoing message.
type Options struct {
	To      []string
	CC      []string
	BCC     []string
	Subject string
	Body    string

	// InReplyTo is the message ID of the message being replied to,
	// used for threading headers. Empty for fresh mail.
	InReplyTo string
}

// addressPattern is deliberately loose; this is a demo client, not an
// address parser.
var addressPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Outbox validates, renders, and files outgoing mail.
type Outbox struct {
	store   Store
	account model.AccountConfig
	now     func() time.Time
	newID   func() string
}

// New creates an outbox sending as the given account.
func New(store Store, account model.AccountConfig) *Outbox {
	return &Outbox{
		store:   store,
		account: account,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Send delivers a plain message to the given recipients. It satisfies
// the automation engine's Sender contract.
func (o *Outbox) Send(ctx context.Context, to []string, subject, body string) (*model.Message, error) {
	return o.SendMail(ctx, Options{To: to, Subject: subject, Body: body})
}

// SendMail validates and "sends" one message, returning the stored
// sent-folder copy.
func (o *Outbox) SendMail(ctx context.Context, opts Options) (*model.Message, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}

	body := opts.Body
	if sig := strings.TrimSpace(o.account.Signature); sig != "" {
		body = body + "\n\n" + sig
	}

	now := o.now()
	id := "msg-" + o.newID()

	raw, err := o.render(opts, body, id, now)
	if err != nil {
		return nil, fmt.Errorf("rendering message: %w", err)
	}

	msg := model.Message{
		ID:      id,
		From:    model.Address{Name: o.account.Name, Email: o.account.Email},
		To:      append([]string(nil), opts.To...),
		Subject: opts.Subject,
		Body:    body,
		Date:    now,
		Read:    true,
		Folder:  model.FolderSent,
		Raw:     raw,
	}

	if err := o.store.SaveMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("storing sent message: %w", err)
	}

	n := model.Notification{
		ID:        o.newID(),
		Kind:      model.NotifySent,
		MessageID: msg.ID,
		Text:      fmt.Sprintf("Sent %q to %s", msg.Subject, strings.Join(opts.To, ", ")),
		CreatedAt: now,
	}
	if err := o.store.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("recording sent notification: %w", err)
	}

	return &msg, nil
}

// validate checks required fields and address syntax before anything
// is rendered or stored.
func validate(opts Options) error {
	if len(opts.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	if strings.TrimSpace(opts.Subject) == "" {
		return fmt.Errorf("subject is required")
	}
	if strings.TrimSpace(opts.Body) == "" {
		return fmt.Errorf("message body is required")
	}

	for _, group := range [][]string{opts.To, opts.CC, opts.BCC} {
		for _, addr := range group {
			if !addressPattern.MatchString(strings.TrimSpace(addr)) {
				return fmt.Errorf("invalid email address %q", addr)
			}
		}
	}
	return nil
}

// render produces the raw RFC 5322 form of the message.
func (o *Outbox) render(opts Options, body, id string, now time.Time) (string, error) {
	var h mail.Header
	h.SetDate(now)
	h.SetAddressList("From", []*mail.Address{
		{Name: o.account.Name, Address: o.account.Email},
	})
	h.SetAddressList("To", toAddressList(opts.To))
	if len(opts.CC) > 0 {
		h.SetAddressList("Cc", toAddressList(opts.CC))
	}
	h.SetSubject(opts.Subject)
	h.SetMsgIDList("Message-Id", []string{id + "@darkmail.invalid"})
	if opts.InReplyTo != "" {
		ref := opts.InReplyTo + "@darkmail.invalid"
		h.SetMsgIDList("In-Reply-To", []string{ref})
		h.SetMsgIDList("References", []string{ref})
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return "", fmt.Errorf("creating mail writer: %w", err)
	}
	if _, err := io.WriteString(w, body); err != nil {
		w.Close()
		return "", fmt.Errorf("writing mail body: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("closing mail writer: %w", err)
	}

	return buf.String(), nil
}

func toAddressList(addrs []string) []*mail.Address {
	out := make([]*mail.Address, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, &mail.Address{Address: strings.TrimSpace(a)})
	}
	return out
}
