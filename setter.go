package forms

// resolveSetter unwraps function setters until a plain value remains. The
// current and reference thunks are evaluated only when a function needs
// them, and a function may return another setter (including a function).
func resolveSetter(setter any, current, reference func() any) any {
	for {
		switch typed := setter.(type) {
		case SetterFunc:
			if typed == nil {
				return Undefined
			}
			setter = typed(current(), reference())
		case func(any, any) any:
			if typed == nil {
				return Undefined
			}
			setter = typed(current(), reference())
		case func(any) any:
			if typed == nil {
				return Undefined
			}
			setter = typed(current())
		default:
			return setter
		}
	}
}

func noReference() any {
	return nil
}

// forwardRecord hands every present entry of a record setter to the child's
// own setter entry point. Unknown keys and Undefined entries are ignored.
func forwardRecord(setter map[string]any, children map[string]Node, apply func(Node, any)) {
	for key, entry := range setter {
		if IsUndefined(entry) {
			continue
		}
		child, ok := children[key]
		if !ok {
			continue
		}
		apply(child, entry)
	}
}

// forwardList applies a positional setter. Entries past the end of children
// and Undefined entries are ignored, so a longer setter never grows a list.
func forwardList(setter []any, children []Node, apply func(Node, any)) {
	for i, entry := range setter {
		if i >= len(children) {
			return
		}
		if IsUndefined(entry) {
			continue
		}
		apply(children[i], entry)
	}
}

// fanOut applies the same scalar setter to every child.
func fanOut(children []Node, setter any, apply func(Node, any)) {
	for _, child := range children {
		apply(child, setter)
	}
}

func applyInput(n Node, setter any)      { n.SetInput(setter) }
func applyInitial(n Node, setter any)    { n.SetInitial(setter) }
func applyTouched(n Node, setter any)    { n.SetTouched(setter) }
func applyValidateOn(n Node, setter any) { n.SetValidateOn(setter) }
func applyError(n Node, setter any)      { n.SetError(setter) }
