package chart

// Recorder is a Surface that keeps every command it receives.
type Recorder struct {
	cmds []Command
}

// Apply records cmd.
func (r *Recorder) Apply(cmd Command) { r.cmds = append(r.cmds, cmd) }

// Commands returns the recorded commands in order.
func (r *Recorder) Commands() []Command { return r.cmds }

// Reset forgets the recorded commands.
func (r *Recorder) Reset() { r.cmds = nil }

// Filter returns the recorded commands with the given op.
func (r *Recorder) Filter(op Op) []Command {
	var out []Command
	for _, c := range r.cmds {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many commands with op were recorded.
func (r *Recorder) Count(op Op) int { return len(r.Filter(op)) }

// Path returns the move-to and line-to commands recorded for key.
func (r *Recorder) Path(key string) []PathCommand {
	var out []PathCommand
	for _, c := range r.cmds {
		if c.Key != key {
			continue
		}
		switch c.Op {
		case OpMoveTo:
			out = append(out, PathCommand{Op: MoveTo, X: c.X, Y: c.Y})
		case OpLineTo:
			out = append(out, PathCommand{Op: LineTo, X: c.X, Y: c.Y})
		}
	}
	return out
}
