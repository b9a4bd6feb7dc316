package mailer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"gopkg.in/gomail.v2"

	"github.com/karan399/milkman/internal/contact/domain"
)

func TestSendContact(t *testing.T) {
	var (
		gotFrom string
		gotTo   []string
		raw     bytes.Buffer
	)
	sender := gomail.SendFunc(func(from string, to []string, msg io.WriterTo) error {
		gotFrom = from
		gotTo = to
		_, err := msg.WriteTo(&raw)
		return err
	})
	m := NewMailerWithSender(sender, "no-reply@mithaibhandar.in", "owner@mithaibhandar.in")

	err := m.SendContact(context.Background(), &domain.Message{Name: "Asha", Email: "asha@example.com", Message: "Do you deliver <b>kaju katli</b>?"})
	if err != nil {
		t.Fatalf("SendContact: %v", err)
	}
	if gotFrom != "no-reply@mithaibhandar.in" || len(gotTo) != 1 || gotTo[0] != "owner@mithaibhandar.in" {
		t.Errorf("envelope from=%q to=%v", gotFrom, gotTo)
	}
	body := raw.String()
	for _, want := range []string{"Subject: New Contact Message", "Reply-To: asha@example.com", "Mithai Bhandar"} {
		if !strings.Contains(body, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestSendContact_Errors(t *testing.T) {
	failing := gomail.SendFunc(func(string, []string, io.WriterTo) error { return errors.New("smtp down") })
	msg := &domain.Message{Name: "A", Email: "a@example.com", Message: "hi"}

	if err := NewMailerWithSender(failing, "f@example.com", "t@example.com").SendContact(context.Background(), msg); err == nil {
		t.Error("expected send error")
	}
	if err := NewMailerWithSender(failing, "f@example.com", "").SendContact(context.Background(), msg); err == nil {
		t.Error("expected error without recipient")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewMailerWithSender(failing, "f@example.com", "t@example.com").SendContact(ctx, msg); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestHTMLBody_Escapes(t *testing.T) {
	got := HTMLBody(&domain.Message{Name: "<script>", Email: "e@x.com", Message: "line1\nline2 & more"})
	if strings.Contains(got, "<script>") {
		t.Error("name must be escaped")
	}
	if !strings.Contains(got, "line1<br/>line2 &amp; more") {
		t.Errorf("body = %s", got)
	}
}
