package packet

// Client (pad) opcodes.
const (
	C_HELLO    byte = 0x01 // [C player id]
	C_SPAWN    byte = 0x02 // spawn button pressed
	C_ACTIVITY byte = 0x03 // any control touched
	C_BYE      byte = 0x04
)

// Server opcodes, broadcast to every bound pad.
const (
	S_WELCOME   byte = 0x80 // [C player][S name][S spawn button][S fire button]
	S_REFUSED   byte = 0x81 // [S reason]
	S_SPEAK     byte = 0x82 // [S text]
	S_CLIP      byte = 0x83 // [S clip]
	S_COUNTDOWN byte = 0x84 // [S text]
	S_HIDE      byte = 0x85
	S_EXPLOSION byte = 0x86 // [F x][F z][F scale][S asset]
)
