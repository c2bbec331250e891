package vt

const (
	// Like it's 1975 baby!
	DEF_ROWS = 24
	DEF_COLS = 80
)

// C0 control codes we act on.
const (
	CTRL_BEL = 0x07 // ^G Bell
	CTRL_BS  = 0x08 // ^H Backspace
	CTRL_TAB = 0x09 // ^I Tab \t
	CTRL_LF  = 0x0a // ^J Line feed \n
	CTRL_VT  = 0x0b // ^K Vertical tab \v
	CTRL_FF  = 0x0c // ^L Form feed \f
	CTRL_CR  = 0x0d // ^M Carriage return \r
	ESC      = 0x1b
)

// ESC dispatch characters.
const (
	ESC_CSI   = '[' // control sequence introducer
	ESC_OSC   = ']' // operating system command
	ESC_IND   = 'D' // index
	ESC_NEL   = 'E' // next line
	ESC_HTS   = 'H' // horizontal tab set
	ESC_RI    = 'M' // reverse index
	ESC_DECSC = '7' // save cursor
	ESC_DECRC = '8' // restore cursor
	ESC_RIS   = 'c' // full reset
	ESC_ST    = '\\'
)

// CSI final bytes.
const (
	CSI_ICH     = '@' // insert blank characters
	CSI_CUU     = 'A' // cursor up
	CSI_CUD     = 'B' // cursor down
	CSI_CUF     = 'C' // cursor forward
	CSI_CUB     = 'D' // cursor back
	CSI_CNL     = 'E' // cursor next line
	CSI_CPL     = 'F' // cursor previous line
	CSI_CHA     = 'G' // cursor horizontal absolute
	CSI_CUP     = 'H' // cursor position
	CSI_ED      = 'J' // erase in display
	CSI_EL      = 'K' // erase in line
	CSI_IL      = 'L' // insert line(s)
	CSI_DL      = 'M' // delete line(s)
	CSI_DCH     = 'P' // delete character(s)
	CSI_SU      = 'S' // scroll up
	CSI_SD      = 'T' // scroll down
	CSI_ECH     = 'X' // erase characters
	CSI_HPA     = '`' // character position absolute (column)
	CSI_HPR     = 'a' // character position relative (column)
	CSI_VPA     = 'd' // line position absolute (row)
	CSI_VPR     = 'e' // line position relative (row)
	CSI_HVP     = 'f' // horizontal vertical position
	CSI_TBC     = 'g' // tab clear
	CSI_SGR     = 'm' // select graphic rendition
	CSI_DECSTBM = 'r' // set top and bottom margin
	CSI_SCOSC   = 's' // save cursor (ANSI.SYS)
	CSI_SCORC   = 'u' // restore cursor (ANSI.SYS)
)

// CSI SGR format codes.
const (
	SGR_RESET            = 0
	SGR_INTENSITY_BOLD   = 1
	SGR_INTENSITY_FAINT  = 2
	SGR_ITALIC_ON        = 3
	SGR_UNDERLINE_ON     = 4
	SGR_BLINK_ON         = 5
	SGR_REVERSED_ON      = 7
	SGR_INVISIBLE_ON     = 8
	SGR_STRIKEOUT_ON     = 9
	SGR_INTENSITY_NORMAL = 22
	SGR_ITALIC_OFF       = 23
	SGR_UNDERLINE_OFF    = 24
	SGR_BLINK_OFF        = 25
	SGR_REVERSED_OFF     = 27
	SGR_INVISIBLE_OFF    = 28
	SGR_STRIKEOUT_OFF    = 29
)

// CSI SGR color codes.
const (
	FG_BLACK        = 30
	FG_WHITE        = 37
	SET_FG          = 38
	FG_DEF          = 39
	BG_BLACK        = 40
	BG_WHITE        = 47
	SET_BG          = 48
	BG_DEF          = 49
	FG_BRIGHT_BLACK = 90
	FG_BRIGHT_WHITE = 97
	BG_BRIGHT_BLACK = 100
	BG_BRIGHT_WHITE = 107
)
