package hxbind

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTestDispatch_ActionAndToggle(t *testing.T) {
	page := `<body><div id="box" data-target="self" data-toggle="active" data-action="save"></div></body>`

	res, err := TestDispatch(context.Background(), page, "#box", "click")
	if err != nil {
		t.Fatalf("TestDispatch() error = %v", err)
	}
	if res.Err != nil {
		t.Errorf("Err = %v", res.Err)
	}
	detail, ok := res.EventDetail(ActionEvent)
	if !ok {
		t.Fatalf("no %q event, got %v", ActionEvent, res.EventTypes())
	}
	if detail != "save" {
		t.Errorf("action detail = %v, want save", detail)
	}
	if res.Events[0].Target != res.Element("#box") {
		t.Errorf("action target = %v, want #box", res.Events[0].Target)
	}
	if !res.HasClass("#box", "active") {
		t.Errorf("class active missing: %s", res.HTML)
	}
	if diff := cmp.Diff([]string{"box"}, ids(res.Targets)); diff != "" {
		t.Errorf("Targets mismatch (-want +got):\n%s", diff)
	}
}

func TestTestDispatch_SelectorTargets(t *testing.T) {
	page := `<body>
<button id="btn" data-target=".row" data-attribute="aria-busy=true" data-trigger="refresh"></button>
<p id="a" class="row"></p>
<p id="b" class="row"></p>
</body>`

	res, err := TestDispatch(context.Background(), page, "#btn", "click")
	if err != nil {
		t.Fatalf("TestDispatch() error = %v", err)
	}
	for _, sel := range []string{"#a", "#b"} {
		if v, _ := res.Attr(sel, "aria-busy"); v != "true" {
			t.Errorf("%s aria-busy = %q, want true", sel, v)
		}
	}
	if diff := cmp.Diff([]string{"refresh", "refresh"}, res.EventTypes()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if res.Events[0].Target != res.Element("#a") || res.Events[1].Target != res.Element("#b") {
		t.Error("trigger events not sent in target order")
	}
}

func TestTestDispatch_ExecFailureContinues(t *testing.T) {
	page := `<body><div id="x" data-exec="throw new Error('boom')" data-template="#tpl"></div>
<template id="tpl"><em>after</em></template></body>`

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	res, err := TestDispatch(context.Background(), page, "#x", "click", WithLogger(log))
	if err != nil {
		t.Fatalf("TestDispatch() error = %v", err)
	}
	if !res.HTMLContains(`<div id="x" data-exec="throw new Error(&#39;boom&#39;)" data-template="#tpl"><em>after</em></div>`) {
		t.Errorf("template not applied after failing exec: %s", res.HTML)
	}
	if !strings.Contains(buf.String(), "level=ERROR") || !strings.Contains(buf.String(), "boom") {
		t.Errorf("exec failure not logged at error level: %s", buf.String())
	}
}

func TestTestDispatch_CustomEvent(t *testing.T) {
	page := `<body><div id="x" data-toggle="on"></div></body>`

	res, err := TestDispatch(context.Background(), page, "#x", "hover", WithEvent("hover"))
	if err != nil {
		t.Fatalf("TestDispatch() error = %v", err)
	}
	if !res.HasClass("#x", "on") {
		t.Errorf("class on missing: %s", res.HTML)
	}

	res, err = TestDispatch(context.Background(), page, "#x", "click", WithEvent("hover"))
	if err != nil {
		t.Fatalf("TestDispatch() error = %v", err)
	}
	if res.HasClass("#x", "on") {
		t.Error("click ran the pipeline of an element bound to hover")
	}
}

func TestTestDispatch_NoMatch(t *testing.T) {
	_, err := TestDispatch(context.Background(), `<body></body>`, "#missing", "click")
	if err == nil {
		t.Fatal("TestDispatch() error = nil, want error")
	}
	if _, err := TestDispatch(context.Background(), `<body></body>`, "[", "click"); err == nil {
		t.Fatal("TestDispatch() with bad selector error = nil")
	}
}

func TestTestResultHelpers(t *testing.T) {
	r := &TestResult{
		HTML:   `<div class="a">hello world</div>`,
		Events: []TestEvent{{Type: "one", Detail: 1}, {Type: "two"}, {Type: "one", Detail: 2}},
	}
	if !r.HTMLContainsAll("hello", "world") || r.HTMLContainsAll("hello", "moon") {
		t.Error("HTMLContainsAll() wrong")
	}
	if !r.HasEvent("two") || r.HasEvent("three") {
		t.Error("HasEvent() wrong")
	}
	if d, _ := r.EventDetail("one"); d != 1 {
		t.Errorf("EventDetail(one) = %v, want first detail", d)
	}
	if diff := cmp.Diff([]string{"one", "two", "one"}, r.EventTypes()); diff != "" {
		t.Errorf("EventTypes() mismatch (-want +got):\n%s", diff)
	}
}
