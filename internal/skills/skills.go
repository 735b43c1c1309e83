// Package skills holds the fixed token set used to label bubbles and the
// token to brand-color mapping.
package skills

import (
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

type Skill int

const (
	Unknown Skill = iota
	JS
	Python
	HTML
	CSS
	React
	Next
	Vue
	Node
	SQL
	Mongo
	PHP
	Laravel
	Django
	Flask
	Docker
	AWS
	Git
	Ethereum
	Solidity
)

// FallbackHex is used for tokens without a brand color.
const FallbackHex = "#4a90e2"

type entry struct {
	token string
	hex   string
}

var table = map[Skill]entry{
	JS:       {"JS", "#f7df1e"},
	Python:   {"Python", "#3776ab"},
	HTML:     {"HTML", "#e44d26"},
	CSS:      {"CSS", "#1572b6"},
	React:    {"React", "#61dafb"},
	Next:     {"Next", "#000000"},
	Vue:      {"Vue", "#4fc08d"},
	Node:     {"Node.js", "#3c873a"},
	SQL:      {"SQL", "#4db33d"},
	Mongo:    {"Mongo", "#4db33d"},
	PHP:      {"php", FallbackHex},
	Laravel:  {"Laravel", FallbackHex},
	Django:   {"django", FallbackHex},
	Flask:    {"flask", FallbackHex},
	Docker:   {"Docker", "#0db7ed"},
	AWS:      {"AWS", "#ff9900"},
	Git:      {"Git", "#f34f29"},
	Ethereum: {"Ethereum", "#627eea"},
	Solidity: {"Solidity", "#363636"},
}

// bubble labels, in display order
var labels = []Skill{JS, Python, HTML, CSS, React, Next, Vue, Node, SQL, Mongo, PHP, Laravel, Django, Flask}

var byToken = func() map[string]Skill {
	m := make(map[string]Skill, len(table))
	for s, e := range table {
		m[strings.ToLower(e.token)] = s
	}
	// icon-library aliases
	m["fajs"] = JS
	m["fapython"] = Python
	m["fahtml5"] = HTML
	m["facss3alt"] = CSS
	m["fareact"] = React
	m["sinextdotjs"] = Next
	m["sivuedotjs"] = Vue
	m["fanodejs"] = Node
	m["fadatabase"] = SQL
	m["fadocker"] = Docker
	m["faaws"] = AWS
	m["fagit"] = Git
	m["faethereum"] = Ethereum
	m["sisolidity"] = Solidity
	return m
}()

// Labels returns a copy of the default bubble label set.
func Labels() []string {
	out := make([]string, len(labels))
	for i, s := range labels {
		out[i] = s.String()
	}
	return out
}

// Parse looks a token up case-insensitively.
func Parse(token string) (Skill, bool) {
	s, ok := byToken[strings.ToLower(strings.TrimSpace(token))]
	return s, ok
}

func (s Skill) String() string {
	if e, ok := table[s]; ok {
		return e.token
	}
	return "unknown"
}

func (s Skill) Hex() string {
	if e, ok := table[s]; ok {
		return e.hex
	}
	return FallbackHex
}

// Color returns the brand color of s with the given alpha.
func (s Skill) Color(alpha uint8) color.NRGBA {
	return hexColor(s.Hex(), alpha)
}

// ColorOf maps any token to a color; unknown tokens get the fallback.
func ColorOf(token string, alpha uint8) color.NRGBA {
	s, _ := Parse(token)
	return s.Color(alpha)
}

func hexColor(hex string, alpha uint8) color.NRGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(FallbackHex)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}
}
