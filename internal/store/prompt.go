package store

// NoticeKind tells the presentation which informational notice to show.
type NoticeKind int

const (
	NoticeDuplicate NoticeKind = iota + 1
)

// Notice is a single-acknowledgment message. It carries no choice.
type Notice struct {
	Kind    NoticeKind
	Title   string
	Message string
}

// Confirmation is a two-choice prompt. Exactly one of its branches runs,
// at most once, on the first call to Resolve.
type Confirmation struct {
	Title   string
	Message string

	onConfirm func()
	onDecline func()
	resolved  bool
}

// Resolve runs the confirm or decline branch. Later calls do nothing.
func (c *Confirmation) Resolve(confirmed bool) {
	if c == nil || c.resolved {
		return
	}
	c.resolved = true
	if confirmed {
		if c.onConfirm != nil {
			c.onConfirm()
		}
		return
	}
	if c.onDecline != nil {
		c.onDecline()
	}
}

// Resolved reports whether the user already answered.
func (c *Confirmation) Resolved() bool { return c != nil && c.resolved }

// Prompter displays notices and confirmations on behalf of the store.
// Confirm may resolve synchronously or keep the confirmation and resolve
// it later from the UI loop.
type Prompter interface {
	Notify(n Notice)
	Confirm(c *Confirmation)
}

// discardPrompter swallows notices and declines every confirmation.
type discardPrompter struct{}

func (discardPrompter) Notify(Notice)           {}
func (discardPrompter) Confirm(c *Confirmation) { c.Resolve(false) }

const (
	duplicateTitle   = "Task already exists"
	duplicateMessage = "You cannot add a task with the same name"
	removeTitle      = "Remove item"
	removeMessage    = "Are you sure you want to remove this item?"
)
