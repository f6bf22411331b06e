package loadgen

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Plan is the subset of a JMeter .jmx test plan the built-in engine consumes:
// the first thread group's sizing and every HTTP sampler under it.
type Plan struct {
	Name      string
	Threads   int
	RampUpSec int
	Duration  int
	Samplers  []Sampler
}

// element is a generic XML tree node. JMeter plans nest elements inside
// hashTree wrappers at arbitrary depth, so the parser walks the whole tree
// instead of decoding a fixed schema.
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []element  `xml:",any"`
}

func (e *element) attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// prop returns the text of a child stringProp/boolProp with the given name attr.
func (e *element) prop(name string) string {
	for i := range e.Children {
		c := &e.Children[i]
		if strings.HasSuffix(c.XMLName.Local, "Prop") && c.attr("name") == name {
			return strings.TrimSpace(c.Text)
		}
	}
	return ""
}

func (e *element) intProp(name string, def int) int {
	s := e.prop(name)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// ParsePlan reads a .jmx file. It fails on malformed XML or a plan without a
// thread group; a plan without samplers gets a single GET against fallbackURL
// so the engine still produces traffic against the configured target.
func ParsePlan(path, fallbackURL string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read test plan")
	}

	var root element
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "parse test plan xml")
	}

	p := &Plan{Threads: 1, RampUpSec: 0, Duration: 60}

	var walk func(e *element)
	walk = func(e *element) {
		switch e.XMLName.Local {
		case "TestPlan":
			if p.Name == "" {
				p.Name = e.attr("testname")
			}
		case "ThreadGroup":
			// First thread group wins; additional groups are ignored.
			if len(p.Samplers) == 0 && p.Threads == 1 {
				p.Threads = e.intProp("ThreadGroup.num_threads", 1)
				p.RampUpSec = e.intProp("ThreadGroup.ramp_time", 0)
				p.Duration = e.intProp("ThreadGroup.duration", 60)
			}
		case "HTTPSamplerProxy", "HTTPSampler":
			p.Samplers = append(p.Samplers, samplerFrom(e))
		}
		for i := range e.Children {
			walk(&e.Children[i])
		}
	}
	walk(&root)

	if p.Threads <= 0 {
		return nil, errors.New("test plan has no usable thread group")
	}
	if len(p.Samplers) == 0 {
		p.Samplers = []Sampler{{Label: "HTTP Request", Method: "GET", URL: fallbackURL}}
	}
	return p, nil
}

func samplerFrom(e *element) Sampler {
	proto := e.prop("HTTPSampler.protocol")
	if proto == "" {
		proto = "http"
	}
	domain := e.prop("HTTPSampler.domain")
	port := e.prop("HTTPSampler.port")
	path := e.prop("HTTPSampler.path")
	if path == "" {
		path = "/"
	}

	host := domain
	if port != "" && port != "80" && port != "443" {
		host = fmt.Sprintf("%s:%s", domain, port)
	}

	method := e.prop("HTTPSampler.method")
	if method == "" {
		method = "GET"
	}

	label := e.attr("testname")
	if label == "" {
		label = "HTTP Request"
	}

	return Sampler{
		Label:  label,
		Method: method,
		URL:    fmt.Sprintf("%s://%s%s", proto, host, path),
	}
}

// EngineConfig converts the plan into a runnable engine config.
func (p *Plan) EngineConfig(timeoutSec int) Config {
	return Config{
		Samplers:   p.Samplers,
		NumUsers:   p.Threads,
		RampUpSec:  p.RampUpSec,
		SteadyDur:  p.Duration,
		TimeoutSec: timeoutSec,
	}
}
