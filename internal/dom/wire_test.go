package dom

import "testing"

func TestMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		msg     Message
		wantErr bool
	}{
		{"click", Message{Type: "mouseup", TS: 1704067200000, X: 10, Y: 10}, false},
		{"hello", Message{Type: MessageHello, Navigator: &Navigator{UserAgent: "test"}}, false},
		{"visibility hidden", Message{Type: "visibilitychange", State: "hidden"}, false},
		{"empty type", Message{TS: 1}, true},
		{"negative timestamp", Message{Type: "keyup", TS: -5}, true},
		{"bad visibility", Message{Type: "visibilitychange", State: "prerender"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMessage_EventConversion(t *testing.T) {
	msg := Message{Type: "paste", TS: epoch.UnixMilli(), Text: "hello"}
	ev := msg.Event()

	if ev.Type != EventPaste {
		t.Errorf("Type = %q, want paste", ev.Type)
	}
	if !ev.Timestamp.Equal(epoch) {
		t.Errorf("Timestamp = %v, want %v", ev.Timestamp, epoch)
	}
	if ev.ClipboardText != "hello" {
		t.Errorf("ClipboardText = %q, want hello", ev.ClipboardText)
	}

	back := MessageFromEvent(ev)
	if back.Type != msg.Type || back.TS != msg.TS || back.Text != msg.Text {
		t.Errorf("MessageFromEvent() = %+v, want %+v", back, msg)
	}
}

func TestMessage_ZeroTimestamp(t *testing.T) {
	if !(Message{Type: "keyup"}).Time().IsZero() {
		t.Error("Time() of a message without ts should be zero")
	}
	if MessageFromEvent(Event{Type: EventKeyUp}).TS != 0 {
		t.Error("MessageFromEvent of a zero timestamp should leave ts unset")
	}
}

func TestPage_Apply(t *testing.T) {
	p := NewPage(Navigator{})
	p.Register("#buy")

	var docEvents, elemEvents int
	p.AddEventListener(EventMouseUp, func(Event) { docEvents++ })
	p.QuerySelector("#buy").AddEventListener("purchase", func(Event) { elemEvents++ })

	if !p.Apply(Message{Type: "mouseup"}) {
		t.Error("Apply(mouseup) = false, want true")
	}
	if !p.Apply(Message{Type: "purchase", Selector: "#buy"}) {
		t.Error("Apply(purchase) = false, want true")
	}
	if p.Apply(Message{Type: MessageFlush}) {
		t.Error("Apply(flush) = true, control messages are not DOM events")
	}
	if p.Apply(Message{Type: "purchase", Selector: "#nope"}) {
		t.Error("Apply to a missing element = true, want false")
	}

	if docEvents != 1 || elemEvents != 1 {
		t.Errorf("docEvents=%d elemEvents=%d, want 1 and 1", docEvents, elemEvents)
	}
}
