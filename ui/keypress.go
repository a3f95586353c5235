package ui

import (
	"sync"

	"github.com/eiannone/keyboard"
)

// KeyEsc is delivered on the key channel when Escape is pressed.
const KeyEsc rune = 27

var (
	keyCh     chan rune
	startOnce sync.Once
	keysOK    bool
)

// StartKeyEvents returns a channel that emits single-key runes read without Enter.
// The channel is closed if the terminal stops delivering keys.
func StartKeyEvents() <-chan rune {
	startOnce.Do(func() {
		keyCh = make(chan rune, 64)
		if err := keyboard.Open(); err != nil {
			// Keyboard not available; keep a buffered channel that will never emit.
			return
		}
		keysOK = true
		go func() {
			defer keyboard.Close()
			for {
				char, key, err := keyboard.GetKey()
				if err != nil {
					close(keyCh)
					return
				}
				switch {
				case key == 0:
					send(char)
				case key == keyboard.KeyEsc, key == keyboard.KeyCtrlC:
					send(KeyEsc)
				case key == keyboard.KeyEnter:
					send('\r')
				}
			}
		}()
	})
	return keyCh
}

// KeysAvailable reports whether StartKeyEvents managed to open the terminal.
func KeysAvailable() bool {
	StartKeyEvents()
	return keysOK
}

func send(r rune) {
	select {
	case keyCh <- r:
	default:
	}
}

// DrainKeys consumes any immediately available keys to avoid accidental triggers.
func DrainKeys() {
	ch := StartKeyEvents()
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
