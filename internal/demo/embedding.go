package demo

import (
	"fmt"

	"github.com/roach88/kata/internal/harness"
)

type person struct {
	name string
}

func (p person) Greet() string { return "Hi, I am " + p.name }
func (p person) Dance() string { return p.name + " dances" }

// warrior promotes person's methods and overrides Greet.
type warrior struct {
	person
	weapon string
}

func (w warrior) Greet() string { return fmt.Sprintf("%s, armed with %s", w.person.Greet(), w.weapon) }

type greeter interface {
	Greet() string
}

func embedding(h *harness.Harness) error {
	r := record(h)

	w := warrior{person: person{name: "Yoshi"}, weapon: "Katana"}
	r.assert(w.Dance() == "Yoshi dances", "methods of an embedded type are promoted")
	r.assert(w.Greet() == "Hi, I am Yoshi, armed with Katana", "the outer type overrides a promoted method")
	r.assert(w.person.Greet() == "Hi, I am Yoshi", "the embedded method is still reachable by name")
	r.assert(w.name == "Yoshi", "fields of an embedded type are promoted")

	var g greeter = w
	_, isWarrior := g.(warrior)
	_, isPerson := g.(person)
	r.assert(isWarrior && !isPerson, "an interface value holds the outer type, not the embedded one")

	var pg greeter = person{name: "Kuma"}
	greetings := []string{pg.Greet(), g.Greet()}
	r.report("greetings:", greetings)
	r.assert(greetings[0] != greetings[1], "interface dispatch picks the method of the dynamic type")

	return r.err
}
