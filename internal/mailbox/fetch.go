package mailbox

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
)

// Message is one fetched mail item. HTMLBody is the payload the pipeline
// cares about; messages without one are skipped downstream.
type Message struct {
	UID       uint32
	MessageID string
	Subject   string
	From      string
	Date      time.Time
	TextBody  string
	HTMLBody  string
}

const fetchBatchSize = 10

// FetchFromSender opens a session, selects the configured folder, searches
// server-side for mail from the configured sender and returns every match
// in server order. Bodies are fetched with a peek section so the messages
// stay unread. The session is logged out on every exit path.
func (f *Fetcher) FetchFromSender(ctx context.Context) ([]Message, error) {
	c, err := f.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Logout()

	mbox, err := c.Select(f.opts.Folder, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrFolderNotFound, f.opts.Folder, err)
	}

	if mbox.Messages == 0 {
		return nil, nil
	}

	criteria := imap.NewSearchCriteria()
	criteria.Header.Add("From", f.opts.Sender)

	seqNums, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("search failed: %v", err)
	}
	if len(seqNums) == 0 {
		return nil, nil
	}

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchUid, section.FetchItem()}

	var fetched []Message
	for i := 0; i < len(seqNums); i += fetchBatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batchEnd := i + fetchBatchSize
		if batchEnd > len(seqNums) {
			batchEnd = len(seqNums)
		}

		seqSet := new(imap.SeqSet)
		seqSet.AddNum(seqNums[i:batchEnd]...)

		messages := make(chan *imap.Message, fetchBatchSize)
		done := make(chan error, 1)

		go func() {
			done <- c.Fetch(seqSet, items, messages)
		}()

		for msg := range messages {
			if msg == nil || msg.Envelope == nil {
				continue
			}
			fetched = append(fetched, parseMessage(msg, section))
		}

		if err := <-done; err != nil {
			return nil, fmt.Errorf("fetch failed: %v", err)
		}
	}

	return fetched, nil
}

// parseMessage converts an IMAP message into a Message, decoding the MIME
// body into its text and HTML parts.
func parseMessage(msg *imap.Message, section *imap.BodySectionName) Message {
	m := Message{
		UID:       msg.Uid,
		MessageID: msg.Envelope.MessageId,
		Subject:   msg.Envelope.Subject,
		Date:      msg.Envelope.Date,
	}

	if len(msg.Envelope.From) > 0 {
		m.From = formatAddress(msg.Envelope.From[0])
	}

	if m.MessageID == "" {
		m.MessageID = fmt.Sprintf("uid:%d", msg.Uid)
	}

	body := msg.GetBody(section)
	if body == nil {
		return m
	}

	entity, err := message.Read(body)
	if err != nil {
		return m
	}
	parseEntity(entity, &m)

	return m
}

// parseEntity walks a MIME entity tree collecting text and HTML parts
func parseEntity(entity *message.Entity, m *Message) {
	if mr := entity.MultipartReader(); mr != nil {
		for {
			part, err := mr.NextPart()
			if err != nil {
				return
			}
			parseEntity(part, m)
		}
	}

	mediaType, _, err := entity.Header.ContentType()
	if err != nil {
		mediaType = "text/plain"
	}

	switch mediaType {
	case "text/plain":
		if content, err := io.ReadAll(entity.Body); err == nil {
			m.TextBody += string(content)
		}
	case "text/html":
		if content, err := io.ReadAll(entity.Body); err == nil {
			m.HTMLBody += string(content)
		}
	}
}

// formatAddress formats an IMAP address as "Name <box@host>"
func formatAddress(addr *imap.Address) string {
	email := addr.MailboxName + "@" + addr.HostName
	if addr.PersonalName != "" {
		return fmt.Sprintf("%s <%s>", addr.PersonalName, email)
	}
	return strings.TrimSpace(email)
}
