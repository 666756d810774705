//go:build linux || freebsd || openbsd || netbsd || dragonfly

package clipboard

import (
	"sort"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// atomSet holds the interned atoms the X11 selection protocol needs.
type atomSet struct {
	clipboard xproto.Atom
	targets   xproto.Atom
	utf8      xproto.Atom
	textPlain xproto.Atom
	png       xproto.Atom
	shapes    xproto.Atom
	property  xproto.Atom
}

// atomNames pairs each atom with the name it is interned under.
func (a *atomSet) atomNames() []struct {
	name string
	dst  *xproto.Atom
} {
	return []struct {
		name string
		dst  *xproto.Atom
	}{
		{"CLIPBOARD", &a.clipboard},
		{"TARGETS", &a.targets},
		{"UTF8_STRING", &a.utf8},
		{"text/plain;charset=utf-8", &a.textPlain},
		{"image/png", &a.png},
		{ShapesMIME, &a.shapes},
		{"SKETCHPAD_CLIPBOARD", &a.property},
	}
}

// targetsFor lists the selection targets a format is offered under, most
// specific first.
func (a atomSet) targetsFor(f format) []xproto.Atom {
	switch f {
	case formatImage:
		return []xproto.Atom{a.png}
	case formatShapes:
		return []xproto.Atom{a.shapes, a.utf8, xproto.AtomString, a.textPlain}
	}
	return nil
}

// offerSet maps each offered target to the bytes served for it.
type offerSet map[xproto.Atom][]byte

func (a atomSet) offer(f format, data []byte) offerSet {
	o := offerSet{}
	for _, t := range a.targetsFor(f) {
		o[t] = data
	}
	return o
}

// lookup returns the first offered payload for f.
func (o offerSet) lookup(a atomSet, f format) ([]byte, bool) {
	for _, t := range a.targetsFor(f) {
		if data, ok := o[t]; ok {
			return data, true
		}
	}
	return nil, false
}

// reply is what a selection owner writes to the requestor's property.
type reply struct {
	typ     xproto.Atom
	bits    byte
	payload []byte
}

// units is the property length in elements of bits size.
func (r reply) units() uint32 {
	return uint32(len(r.payload) * 8 / int(r.bits))
}

// answer builds the reply to a conversion request for target. TARGETS lists
// every offered target; anything else must be on offer with data.
func (o offerSet) answer(a atomSet, target xproto.Atom) (reply, bool) {
	if target == a.targets {
		list := make([]xproto.Atom, 0, len(o)+1)
		for t := range o {
			list = append(list, t)
		}
		sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
		list = append([]xproto.Atom{a.targets}, list...)
		return reply{typ: xproto.AtomAtom, bits: 32, payload: atomsToBytes(list)}, true
	}
	data, ok := o[target]
	if !ok || len(data) == 0 {
		return reply{}, false
	}
	typ := target
	if target == a.textPlain {
		typ = a.utf8
	}
	return reply{typ: typ, bits: 8, payload: data}, true
}

func atomsToBytes(atoms []xproto.Atom) []byte {
	buf := make([]byte, len(atoms)*4)
	for i, atom := range atoms {
		xgb.Put32(buf[i*4:], uint32(atom))
	}
	return buf
}
