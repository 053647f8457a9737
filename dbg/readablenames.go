package dbg

import (
	"fmt"
	"reflect"
	"sync"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/logrusorgru/aurora"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// This converts pointers into random readable names. It flagrantly leaks
// memory but generates the names lazily, so it's not a problem unless you're
// actually using it. This is helpful for telling mesh elements apart in
// debug output, where IDs get reused after pruning.

var (
	mu   sync.Mutex
	memo map[interface{}]string
)

func init() {
	memo = make(map[interface{}]string)
	// Since the ids are generated in order of demand, we make them
	// nondeterministic to remind the user that the same name doesn't refer to
	// the same thing between runs.
	petname.NonDeterministicMode()
}

func Name(obj interface{}) string {
	if obj == nil {
		return "Ø"
	}
	if v := reflect.ValueOf(obj); v.Kind() == reflect.Ptr && v.IsNil() {
		return "Ø"
	}

	mu.Lock()
	defer mu.Unlock()
	if r, ok := memo[obj]; ok {
		return r
	}
	title := cases.Title(language.English)
	r := fmt.Sprintf("%s%s", title.String(petname.Adjective()), title.String(petname.Name()))
	memo[obj] = r
	return r
}

// Status of a mesh element, for coloring its name.
type Status int

const (
	Live Status = iota
	Dead
	Infected
	Sentinel
)

// ColorName is Name, colored by status: live green, dead red, infected
// yellow, sentinels cyan.
func ColorName(obj interface{}, status Status) string {
	name := Name(obj)
	switch status {
	case Dead:
		return aurora.Red(name).String()
	case Infected:
		return aurora.Yellow(name).String()
	case Sentinel:
		return aurora.Cyan(name).String()
	}
	return aurora.Green(name).String()
}
