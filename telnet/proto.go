package telnet

// Telnet protocol bytes (RFC 854).  The values must stay byte-exact:
// they go on the wire when the filter refuses an option.
const (
	IAC  byte = 255 // Interpret As Command
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250 // Subnegotiation Begin
	GA   byte = 249 // Go Ahead
	EL   byte = 248 // Erase Line
	EC   byte = 247 // Erase Character
	AYT  byte = 246 // Are You There
	AO   byte = 245 // Abort Output
	IP   byte = 244 // Interrupt Process
	BRK  byte = 243 // Break
	DM   byte = 242 // Data Mark
	NOP  byte = 241 // No Operation
	SE   byte = 240 // Subnegotiation End
)

// Common option codes, for logging and tests.
const (
	OptEcho byte = 1  // RFC 857
	OptSGA  byte = 3  // RFC 858, Suppress Go Ahead
	OptNAWS byte = 31 // RFC 1073, window size
)

// filterState tracks where the filter is inside an IAC sequence.
// Sequences may straddle transport reads, so the state lives on the
// Filter rather than on the stack of a single call.
type filterState int

const (
	stateData      filterState = iota // plain data flow
	stateCommand                      // IAC seen, command byte expected
	stateOption                       // WILL/WONT/DO/DONT seen, option byte expected
	stateSubneg                       // inside IAC SB ... IAC SE
	stateSubnegIAC                    // IAC seen inside a subnegotiation
)

// Filter strips telnet control sequences out of the raw byte stream.
//
// Plain data passes through unchanged.  Negotiation requests are
// answered with fixed refusals: DO x → IAC WONT x, WILL x → IAC DONT x.
// WONT/DONT need no answer.  IAC IAC unescapes to a literal 0xFF data
// byte.  Subnegotiation payloads (IAC SB ... IAC SE) and the simple
// two-byte commands (NOP, GA, AYT, ...) are consumed and discarded.
//
// The zero value is ready to use.  A Filter is not safe for concurrent
// use; the session owns exactly one.
type Filter struct {
	state   filterState
	command byte // pending WILL/WONT/DO/DONT while in stateOption
}

// Filter consumes one chunk of raw transport bytes.  It returns the
// clean data bytes and any refusal replies that must be written back
// to the transport before the next read.
func (f *Filter) Filter(in []byte) (data, replies []byte) {
	for _, b := range in {
		switch f.state {
		case stateData:
			if b == IAC {
				f.state = stateCommand
				continue
			}
			data = append(data, b)

		case stateCommand:
			switch b {
			case IAC:
				// Escaped 0xFF: a literal data byte.
				data = append(data, IAC)
				f.state = stateData
			case WILL, WONT, DO, DONT:
				f.command = b
				f.state = stateOption
			case SB:
				f.state = stateSubneg
			default:
				// NOP, GA, AYT and friends carry no option byte.
				f.state = stateData
			}

		case stateOption:
			switch f.command {
			case DO:
				replies = append(replies, IAC, WONT, b)
			case WILL:
				replies = append(replies, IAC, DONT, b)
			}
			// WONT/DONT acknowledge our refusals; nothing to send.
			f.state = stateData

		case stateSubneg:
			if b == IAC {
				f.state = stateSubnegIAC
			}

		case stateSubnegIAC:
			if b == SE {
				f.state = stateData
			} else {
				// IAC IAC inside a subnegotiation escapes a payload
				// byte; either way the payload is discarded.
				f.state = stateSubneg
			}
		}
	}
	return data, replies
}

// Reset returns the filter to the plain-data state, dropping any
// half-consumed sequence.
func (f *Filter) Reset() {
	f.state = stateData
	f.command = 0
}

// commandName returns a readable name for verbose logging.
func commandName(b byte) string {
	switch b {
	case WILL:
		return "WILL"
	case WONT:
		return "WONT"
	case DO:
		return "DO"
	case DONT:
		return "DONT"
	case SB:
		return "SB"
	case SE:
		return "SE"
	default:
		return "?"
	}
}
