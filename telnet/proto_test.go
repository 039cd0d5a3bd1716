package telnet

import (
	"bytes"
	"testing"
)

func TestFilterPassThrough(t *testing.T) {
	// Anything without an IAC byte must come out untouched and
	// generate no replies.
	var in []byte
	for b := 0; b < 255; b++ { // every value except IAC
		in = append(in, byte(b))
	}

	var f Filter
	data, replies := f.Filter(in)

	if !bytes.Equal(data, in) {
		t.Errorf("data mangled:\n got %v\nwant %v", data, in)
	}
	if len(replies) != 0 {
		t.Errorf("unexpected replies: %v", replies)
	}
}

func TestFilterRefusals(t *testing.T) {
	tests := []struct {
		name      string
		in        []byte
		wantReply []byte
	}{
		{"DO refused with WONT", []byte{IAC, DO, OptEcho}, []byte{IAC, WONT, OptEcho}},
		{"WILL refused with DONT", []byte{IAC, WILL, OptSGA}, []byte{IAC, DONT, OptSGA}},
		{"DO NAWS refused", []byte{IAC, DO, OptNAWS}, []byte{IAC, WONT, OptNAWS}},
		{"WONT needs no answer", []byte{IAC, WONT, OptEcho}, nil},
		{"DONT needs no answer", []byte{IAC, DONT, OptEcho}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Filter
			data, replies := f.Filter(tt.in)
			if len(data) != 0 {
				t.Errorf("negotiation leaked into data: %v", data)
			}
			if !bytes.Equal(replies, tt.wantReply) {
				t.Errorf("replies = %v, want %v", replies, tt.wantReply)
			}
		})
	}
}

func TestFilterSequenceStraddlesReads(t *testing.T) {
	// The same sequence split at every possible point must behave
	// exactly like the contiguous one.
	seq := []byte{IAC, DO, OptEcho}
	want := []byte{IAC, WONT, OptEcho}

	for cut := 1; cut < len(seq); cut++ {
		var f Filter
		var replies []byte

		_, r := f.Filter(seq[:cut])
		replies = append(replies, r...)
		_, r = f.Filter(seq[cut:])
		replies = append(replies, r...)

		if !bytes.Equal(replies, want) {
			t.Errorf("cut at %d: replies = %v, want %v", cut, replies, want)
		}
	}
}

func TestFilterEscapedIAC(t *testing.T) {
	var f Filter
	data, replies := f.Filter([]byte{'a', IAC, IAC, 'b'})

	if !bytes.Equal(data, []byte{'a', IAC, 'b'}) {
		t.Errorf("data = %v, want literal 0xFF preserved", data)
	}
	if len(replies) != 0 {
		t.Errorf("unexpected replies: %v", replies)
	}
}

func TestFilterSubnegotiationDiscarded(t *testing.T) {
	in := []byte{'x'}
	in = append(in, IAC, SB, OptNAWS, 0, 80, 0, 24, IAC, SE)
	in = append(in, 'y')

	var f Filter
	data, replies := f.Filter(in)

	if !bytes.Equal(data, []byte{'x', 'y'}) {
		t.Errorf("data = %q, want %q", data, "xy")
	}
	if len(replies) != 0 {
		t.Errorf("unexpected replies: %v", replies)
	}
}

func TestFilterSimpleCommandsIgnored(t *testing.T) {
	in := []byte{'a', IAC, NOP, 'b', IAC, GA, 'c'}

	var f Filter
	data, replies := f.Filter(in)

	if !bytes.Equal(data, []byte{'a', 'b', 'c'}) {
		t.Errorf("data = %q, want %q", data, "abc")
	}
	if len(replies) != 0 {
		t.Errorf("unexpected replies: %v", replies)
	}
}

func TestFilterInterleaved(t *testing.T) {
	in := []byte("log")
	in = append(in, IAC, DO, OptEcho)
	in = append(in, []byte("in: ")...)
	in = append(in, IAC, WILL, OptSGA)

	var f Filter
	data, replies := f.Filter(in)

	if string(data) != "login: " {
		t.Errorf("data = %q, want %q", data, "login: ")
	}
	want := []byte{IAC, WONT, OptEcho, IAC, DONT, OptSGA}
	if !bytes.Equal(replies, want) {
		t.Errorf("replies = %v, want %v", replies, want)
	}
}

func TestFilterReset(t *testing.T) {
	var f Filter
	f.Filter([]byte{IAC}) // half a sequence
	f.Reset()

	data, _ := f.Filter([]byte{'a'})
	if !bytes.Equal(data, []byte{'a'}) {
		t.Errorf("after Reset, data = %v, want [a]", data)
	}
}
