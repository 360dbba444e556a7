// Package chatbot answers questions about water-quality terms from a
// fixed table of canned replies, with optional LLM answers on request.
package chatbot

import (
	"errors"
	"strings"
)

// Entry pairs a trigger keyword with its canned reply.
type Entry struct {
	Keyword string `json:"keyword"`
	Reply   string `json:"reply"`
}

// Fallback is returned when no keyword matches.
const Fallback = "Sorry, I don't understand. Ask me about water quality!"

// DefaultTable is the built-in response table. Order matters: when a
// message contains several keywords the earliest entry wins, so
// "hello, how are you" gets the greeting and "is a ph of 7 safe" gets the
// pH explanation.
var DefaultTable = []Entry{
	{"ph", "pH tells how acidic or basic the water is. Ideal pH is 6.5 to 8.5."},
	{"hardness", "Hardness means calcium & magnesium in water. Too much isn't good for pipes."},
	{"safe", "If water is potable, it means it's safe to drink."},
	{"sulfate", "Sulfates are minerals. High levels can cause stomach issues."},
	{"hello", "Hello! Ask me about water parameters like pH, sulfate, etc."},
	{"how are you", "I'm great! Ready to help you with water info."},
}

// Responder maps free text to a canned reply. It is immutable and safe
// for concurrent use.
type Responder struct {
	table    []Entry
	fallback string
}

// NewResponder builds a Responder over a copy of table. Keywords are
// lowercased; an empty table or keyword is rejected.
func NewResponder(table []Entry, fallback string) (*Responder, error) {
	if len(table) == 0 {
		return nil, errors.New("response table is empty")
	}
	t := make([]Entry, len(table))
	for i, e := range table {
		kw := strings.ToLower(strings.TrimSpace(e.Keyword))
		if kw == "" {
			return nil, errors.New("response table has an empty keyword")
		}
		t[i] = Entry{Keyword: kw, Reply: e.Reply}
	}
	return &Responder{table: t, fallback: fallback}, nil
}

// DefaultResponder returns a Responder over DefaultTable.
func DefaultResponder() *Responder {
	r, err := NewResponder(DefaultTable, Fallback)
	if err != nil {
		panic(err)
	}
	return r
}

// Match returns the first entry whose keyword occurs in the lowercased
// text.
func (r *Responder) Match(text string) (Entry, bool) {
	msg := strings.ToLower(text)
	for _, e := range r.table {
		if strings.Contains(msg, e.Keyword) {
			return e, true
		}
	}
	return Entry{}, false
}

// Respond returns the reply for the first matching keyword, or the
// fallback string.
func (r *Responder) Respond(text string) string {
	if e, ok := r.Match(text); ok {
		return e.Reply
	}
	return r.fallback
}

// Entries returns a copy of the table in match order.
func (r *Responder) Entries() []Entry {
	out := make([]Entry, len(r.table))
	copy(out, r.table)
	return out
}
