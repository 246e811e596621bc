package graph

import (
	"regexp"
	"strings"
)

// Message is one arrow of a translated sequence diagram.
type Message struct {
	Seq   int
	From  string
	To    string
	Label string
}

// Arrows are listed longest first; regexp alternation is leftmost-first.
var messagePattern = regexp.MustCompile(
	`^\s*("[^"]+"|[\w.]+)\s*(-->>|-->|->>|->|<--|<-)\s*("[^"]+"|[\w.]+)\s*(?::\s*(.*?))?\s*$`)

// ParseMessage recognises lines such as "client -> server : hello".
// Left-pointing arrows are normalised so From is always the sender.
func ParseMessage(line string) (Message, bool) {
	m := messagePattern.FindStringSubmatch(line)
	if m == nil {
		return Message{}, false
	}
	from, arrow, to := unquote(m[1]), m[2], unquote(m[3])
	if strings.HasPrefix(arrow, "<") {
		from, to = to, from
	}
	return Message{From: from, To: to, Label: m[4]}, true
}

// ParseSequence extracts the messages of lines, numbered from 1 in order.
func ParseSequence(lines []string) []Message {
	var msgs []Message
	for _, line := range lines {
		msg, ok := ParseMessage(line)
		if !ok {
			continue
		}
		msg.Seq = len(msgs) + 1
		msgs = append(msgs, msg)
	}
	return msgs
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
