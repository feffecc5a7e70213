package domain

import (
	"errors"
	"strings"
)

// ErrVerdictNotPassed guards the send path against rejected digests.
var ErrVerdictNotPassed = errors.New("digest did not pass quality checks")

// Digest is the synthesized narrative. It is never modified after creation.
type Digest struct {
	text string
}

// NewDigest wraps raw model output.
func NewDigest(text string) Digest {
	return Digest{text: strings.TrimSpace(text)}
}

// Text returns the digest body.
func (d Digest) Text() string {
	return d.text
}

// WordCount counts whitespace separated tokens.
func (d Digest) WordCount() int {
	return len(strings.Fields(d.text))
}

// Empty reports whether the model returned nothing.
func (d Digest) Empty() bool {
	return d.text == ""
}

// Verdict is the result of the quality checks. Words and Citations carry the
// measured values so callers can print them without re-running the checks.
type Verdict struct {
	Passed    bool
	Reasons   []string
	Words     int
	Citations int
}

// NewVerdict derives Passed from the reason list.
func NewVerdict(reasons []string) Verdict {
	if reasons == nil {
		reasons = []string{}
	}
	return Verdict{Passed: len(reasons) == 0, Reasons: reasons}
}

// EmailMessage is the outbound mail built from a passed digest.
type EmailMessage struct {
	From     string
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// NewEmailMessage refuses to build a message for a digest that failed validation.
func NewEmailMessage(verdict Verdict, from, to, subject, htmlBody, textBody string) (EmailMessage, error) {
	if !verdict.Passed {
		return EmailMessage{}, ErrVerdictNotPassed
	}
	return EmailMessage{
		From:     from,
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	}, nil
}
