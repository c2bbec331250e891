package vt

// parser turns a rune stream into Actions. It is incremental: escape
// sequences may arrive split across writes, so state persists between
// calls. The slice returned by parse is valid until the next call.
type parser struct {
	state  pState
	params *parameters
	priv   bool
	acts   []Action
}

type pState uint8

const (
	psGround pState = iota
	psEsc
	psEscInter // swallowing a charset designator argument
	psCSI
	psOSC
	psOSCEsc // saw ESC inside an OSC string
)

func newParser() *parser {
	return &parser{params: newParams()}
}

func (p *parser) emit(a Action) {
	p.acts = append(p.acts, a)
}

func (p *parser) parse(r rune) []Action {
	p.acts = p.acts[:0]

	// C0 controls act immediately without disturbing an escape
	// sequence in flight, except inside OSC strings where BEL is
	// the terminator.
	if r < 0x20 && r != ESC && p.state != psOSC && p.state != psOSCEsc {
		p.emit(executeAction(r))
		return p.acts
	}

	switch p.state {
	case psGround:
		switch r {
		case ESC:
			p.state = psEsc
		default:
			p.emit(Action{Kind: ActionPrint, R: r})
		}
	case psEsc:
		p.parseEsc(r)
	case psEscInter:
		// charset designator argument, unsupported
		p.emit(Action{Kind: ActionIgnore, R: r})
		p.state = psGround
	case psCSI:
		p.parseCSI(r)
	case psOSC:
		switch r {
		case CTRL_BEL:
			p.emit(Action{Kind: ActionIgnore})
			p.state = psGround
		case ESC:
			p.state = psOSCEsc
		default:
			// OSC payload (titles etc) is dropped; playback
			// has nowhere to put it.
		}
	case psOSCEsc:
		if r == ESC_ST {
			p.emit(Action{Kind: ActionIgnore})
			p.state = psGround
		} else {
			p.state = psOSC
		}
	}

	return p.acts
}

func executeAction(r rune) Action {
	switch r {
	case CTRL_BEL:
		return Action{Kind: ActionBell}
	case CTRL_BS:
		return Action{Kind: ActionBackspace}
	case CTRL_TAB:
		return Action{Kind: ActionTab}
	case CTRL_LF, CTRL_VT, CTRL_FF: // libvte treats these the same, so we do too
		return Action{Kind: ActionLineFeed}
	case CTRL_CR:
		return Action{Kind: ActionCarriageReturn}
	}
	return Action{Kind: ActionIgnore, R: r}
}

func (p *parser) parseEsc(r rune) {
	p.state = psGround

	switch r {
	case ESC_CSI:
		p.params.reset()
		p.priv = false
		p.state = psCSI
	case ESC_OSC:
		p.state = psOSC
	case '(', ')', '#', '%':
		p.state = psEscInter
	case ESC_IND:
		p.emit(Action{Kind: ActionIndex})
	case ESC_NEL:
		p.emit(Action{Kind: ActionNextLine})
	case ESC_HTS:
		p.emit(Action{Kind: ActionTabSet})
	case ESC_RI:
		p.emit(Action{Kind: ActionReverseIndex})
	case ESC_DECSC:
		p.emit(Action{Kind: ActionSaveCursor})
	case ESC_DECRC:
		p.emit(Action{Kind: ActionRestoreCursor})
	case ESC_RIS:
		p.emit(Action{Kind: ActionReset})
	default:
		p.emit(Action{Kind: ActionIgnore, R: r})
	}
}

func (p *parser) parseCSI(r rune) {
	switch {
	case r >= '0' && r <= '9':
		d := int(r - '0')
		if p.params.numItems() == 0 {
			p.params.addItem(d)
		} else {
			p.params.alterItem(p.params.lastItem()*10 + d)
		}
	case r == ';':
		if p.params.numItems() == 0 {
			p.params.addItem(0)
		}
		p.params.addItem(0)
	case r >= 0x3c && r <= 0x3f: // private markers ? > = <
		p.priv = true
	case r >= 0x20 && r <= 0x2f: // intermediates, unsupported finals follow
		p.priv = true
	case r >= 0x40 && r <= 0x7e:
		p.emit(p.csiAction(r))
		p.state = psGround
	default:
		// stray byte inside CSI, drop the sequence
		p.emit(Action{Kind: ActionIgnore, R: r})
		p.state = psGround
	}
}

var csiKinds = map[rune]ActionKind{
	CSI_CUU:     ActionCursorUp,
	CSI_CUD:     ActionCursorDown,
	CSI_VPR:     ActionCursorDown,
	CSI_CUF:     ActionCursorForward,
	CSI_HPR:     ActionCursorForward,
	CSI_CUB:     ActionCursorBack,
	CSI_CNL:     ActionCursorNextLine,
	CSI_CPL:     ActionCursorPrevLine,
	CSI_CHA:     ActionCursorCol,
	CSI_HPA:     ActionCursorCol,
	CSI_VPA:     ActionCursorRow,
	CSI_CUP:     ActionCursorTo,
	CSI_HVP:     ActionCursorTo,
	CSI_TBC:     ActionTabClear,
	CSI_ED:      ActionEraseDisplay,
	CSI_EL:      ActionEraseLine,
	CSI_ECH:     ActionEraseChars,
	CSI_ICH:     ActionInsertChars,
	CSI_DCH:     ActionDeleteChars,
	CSI_IL:      ActionInsertLines,
	CSI_DL:      ActionDeleteLines,
	CSI_SGR:     ActionSetStyle,
	CSI_DECSTBM: ActionSetRegion,
	CSI_SU:      ActionScrollUp,
	CSI_SD:      ActionScrollDown,
	CSI_SCOSC:   ActionSaveCursor,
	CSI_SCORC:   ActionRestoreCursor,
}

func (p *parser) csiAction(last rune) Action {
	// Private mode sequences (DECSET/DECRST and friends) don't
	// affect a replay buffer; drop them whole.
	if p.priv {
		return Action{Kind: ActionIgnore, R: last}
	}

	kind, ok := csiKinds[last]
	if !ok {
		return Action{Kind: ActionIgnore, R: last}
	}

	return Action{Kind: kind, R: last, Params: p.params.snapshot()}
}
