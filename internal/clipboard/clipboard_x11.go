//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

var errNoTarget = errors.New("clipboard target unavailable")

// x11Clipboard owns the CLIPBOARD selection through a hidden window. What it
// offers stays available until another client takes ownership or the
// process exits.
type x11Clipboard struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  atomSet

	mu     sync.RWMutex
	offers offerSet
}

func openBackend() (backend, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("x11 clipboard: %w", err)
	}
	window, err := hiddenWindow(conn, xproto.EventMaskPropertyChange|xproto.EventMaskStructureNotify)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("x11 clipboard: %w", err)
	}
	c := &x11Clipboard{conn: conn, window: window}
	for _, a := range c.atoms.atomNames() {
		r, err := xproto.InternAtom(conn, false, uint16(len(a.name)), a.name).Reply()
		if err != nil {
			xproto.DestroyWindow(conn, window)
			conn.Close()
			return nil, fmt.Errorf("x11 clipboard: intern %s: %w", a.name, err)
		}
		*a.dst = r.Atom
	}
	go c.serve()
	return c, nil
}

func hiddenWindow(conn *xgb.Conn, mask uint32) (xproto.Window, error) {
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}
	err = xproto.CreateWindowChecked(conn, 0, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, xproto.CwEventMask, []uint32{mask}).Check()
	return window, err
}

func (c *x11Clipboard) write(f format, data []byte) error {
	c.mu.Lock()
	c.offers = c.atoms.offer(f, append([]byte(nil), data...))
	c.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(c.conn, c.window, c.atoms.clipboard, xproto.TimeCurrentTime).Check()
}

func (c *x11Clipboard) read(f format) ([]byte, error) {
	// our own selection is answered without a round trip
	if owner, err := xproto.GetSelectionOwner(c.conn, c.atoms.clipboard).Reply(); err == nil && owner.Owner == c.window {
		c.mu.RLock()
		defer c.mu.RUnlock()
		if data, ok := c.offers.lookup(c.atoms, f); ok {
			return data, nil
		}
		return nil, errNoTarget
	}

	// events on c.conn belong to serve, so conversions use their own connection
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	window, err := hiddenWindow(conn, xproto.EventMaskPropertyChange)
	if err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, window)

	err = errNoTarget
	for _, target := range c.atoms.targetsFor(f) {
		var data []byte
		if data, err = c.convert(conn, window, target); err == nil {
			return data, nil
		}
	}
	return nil, err
}

// convert asks the current owner for target and waits for the answer.
func (c *x11Clipboard) convert(conn *xgb.Conn, window xproto.Window, target xproto.Atom) ([]byte, error) {
	if err := xproto.DeletePropertyChecked(conn, window, c.atoms.property).Check(); err != nil {
		return nil, err
	}
	if err := xproto.ConvertSelectionChecked(conn, window, c.atoms.clipboard, target, c.atoms.property, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}
	for {
		ev, err := conn.WaitForEvent()
		if err != nil {
			return nil, err
		}
		n, ok := ev.(xproto.SelectionNotifyEvent)
		if !ok || n.Target != target {
			continue
		}
		if n.Property == xproto.AtomNone {
			return nil, errNoTarget
		}
		prop, perr := xproto.GetProperty(conn, true, window, n.Property, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
		if perr != nil {
			return nil, perr
		}
		return append([]byte(nil), prop.Value...), nil
	}
}

// serve answers conversion requests until the connection closes.
func (c *x11Clipboard) serve() {
	for {
		ev, err := c.conn.WaitForEvent()
		if err != nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			c.respond(e)
		case xproto.SelectionClearEvent:
			c.mu.Lock()
			c.offers = nil
			c.mu.Unlock()
		}
	}
}

func (c *x11Clipboard) respond(e xproto.SelectionRequestEvent) {
	prop := e.Property
	if prop == xproto.AtomNone {
		// obsolete requestors name no property
		prop = e.Target
	}
	c.mu.RLock()
	r, ok := c.offers.answer(c.atoms, e.Target)
	c.mu.RUnlock()
	if ok {
		xproto.ChangeProperty(c.conn, xproto.PropModeReplace, e.Requestor, prop, r.typ, r.bits, r.units(), r.payload)
	} else {
		prop = xproto.AtomNone
	}
	notify := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  prop,
	}
	xproto.SendEvent(c.conn, false, e.Requestor, 0, string(notify.Bytes()))
}
