package terminal

import (
	"fmt"
	"io"
	"sync"
)

// Notifier prints notices as framed messages.
type Notifier struct {
	mu     sync.Mutex
	w      io.Writer
	styles styles
}

// NewNotifier creates a Notifier writing to w.
func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{w: w, styles: newStyles(w)}
}

// Notify prints message.
func (n *Notifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, n.styles.notice.Render(message))
}
