package shell

// Outcome is the result of one argument of a multi-argument command.
type Outcome struct {
	Name string
	Err  error
}

// Results collects one Outcome per argument, in argument order.
type Results []Outcome

func (r *Results) add(name string, err error) {
	*r = append(*r, Outcome{Name: name, Err: err})
}

func single(name string, err error) Results {
	return Results{{Name: name, Err: err}}
}

// OK reports whether every argument succeeded.
func (r Results) OK() bool {
	for _, o := range r {
		if o.Err != nil {
			return false
		}
	}
	return true
}

// Failed returns the number of failed arguments.
func (r Results) Failed() int {
	n := 0
	for _, o := range r {
		if o.Err != nil {
			n++
		}
	}
	return n
}
