package types2

// exprContext is the syntactic position an expression is evaluated in. It
// decides which numeric literals may appear without a name.
type exprContext uint8

const (
	ctxGeneral        exprContext = iota // expression statement
	ctxAssignment                        // right side of an assignment
	ctxInitialization                    // initializer of a variable or constant
	ctxCondition                         // if, otherwise or while condition
	ctxArgument                          // call argument
	ctxReturn                            // return value
	ctxIndex                             // array index
)

var contextNames = [...]string{
	ctxGeneral:        "an expression statement",
	ctxAssignment:     "an assignment",
	ctxInitialization: "an initializer",
	ctxCondition:      "a condition",
	ctxArgument:       "a call argument",
	ctxReturn:         "a return value",
	ctxIndex:          "an array index",
}

func (ctx exprContext) String() string {
	return contextNames[ctx]
}

// allowsInt reports whether integer literals other than 0 and 1 may appear.
func (ctx exprContext) allowsInt() bool {
	switch ctx {
	case ctxAssignment, ctxInitialization, ctxGeneral:
		return true
	}
	return false
}

// allowsDouble reports whether double literals may appear.
func (ctx exprContext) allowsDouble() bool {
	switch ctx {
	case ctxAssignment, ctxInitialization, ctxReturn:
		return true
	}
	return false
}
