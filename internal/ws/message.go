package ws

// Client -> Server message types
const (
	MsgInput   uint8 = 0x01
	MsgCommand uint8 = 0x02
	MsgPing    uint8 = 0x04
)

// Server -> Client message types
const (
	MsgFrame    uint8 = 0x81
	MsgWelcome  uint8 = 0x82
	MsgGameOver uint8 = 0x83
	MsgScored   uint8 = 0x84
	MsgPong     uint8 = 0x86
)

// Message is a decoded envelope. Payload is still encoded with the codec of
// the connection it came from or is going to.
type Message struct {
	Type    uint8
	Tick    uint32
	Payload []byte
}

type PaddleKeys struct {
	Up   bool `json:"up"`
	Down bool `json:"down"`
}

// InputPayload is a snapshot of the keys held right now. It replaces the
// previous snapshot until the next one arrives.
type InputPayload struct {
	Left  PaddleKeys `json:"left"`
	Right PaddleKeys `json:"right"`
}

// CommandPayload names a session command, e.g. {"name":"mode","value":"two"}.
type CommandPayload struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

type PingPayload struct {
	ClientTime uint64 `json:"clientTime"`
}

type PongPayload struct {
	ClientTime uint64 `json:"clientTime"`
	ServerTime uint64 `json:"serverTime"`
}

// WelcomePayload tells the client how big the field is and how fast the
// server ticks.
type WelcomePayload struct {
	FieldWidth   float64 `json:"fieldWidth"`
	FieldHeight  float64 `json:"fieldHeight"`
	PaddleWidth  float64 `json:"paddleWidth"`
	PaddleHeight float64 `json:"paddleHeight"`
	BallRadius   float64 `json:"ballRadius"`
	WinScore     int     `json:"winScore"`
	TickRate     int     `json:"tickRate"`
	Codec        string  `json:"codec"`
}

type ScoredPayload struct {
	Side   uint8  `json:"side"`
	Points int    `json:"points"`
	Score  [2]int `json:"score"`
}

type GameOverPayload struct {
	Winner  int8   `json:"winner"`
	Score   [2]int `json:"score"`
	Message string `json:"message"`
}

// NewMessage encodes payload with c and wraps it in an envelope.
func NewMessage(c Codec, typ uint8, tick uint32, payload any) (Message, error) {
	data, err := c.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Type:    typ,
		Tick:    tick,
		Payload: data,
	}, nil
}
