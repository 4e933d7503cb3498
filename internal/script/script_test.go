package script

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

func run(t *testing.T, doc string) Result {
	t.Helper()
	s, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return NewRunner(nil).Run(s)
}

func titles(s store.Snapshot) []string {
	var out []string
	for _, t := range s.Tasks() {
		out = append(out, t.Title)
	}
	return out
}

func TestParseRejectsInvalidScripts(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantPath string
	}{
		{"unknown op", `{"intents":[{"op":"fly","id":1}]}`, "intents[0].op"},
		{"add without title", `{"intents":[{"op":"add"}]}`, "intents[0]"},
		{"id below one", `{"intents":[{"op":"add","title":"a"},{"op":"toggle","id":0}]}`, "intents[1].id"},
		{"add with empty title", `{"intents":[{"op":"add","title":""}]}`, "intents[0].title"},
		{"extra field", `{"intents":[{"op":"toggle","id":1,"when":"now"}]}`, "intents[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Parse: got %v, want *ValidationError", err)
			}
			if ve.Path != tt.wantPath {
				t.Errorf("Path: got %q, want %q (%s)", ve.Path, tt.wantPath, ve.Message)
			}
		})
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"intents":[`))
	if err == nil {
		t.Fatal("Parse: want error")
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		t.Errorf("malformed JSON reported as validation error: %v", err)
	}
}

func TestDuplicateAddNotice(t *testing.T) {
	res := run(t, `{"intents":[
		{"op":"add","title":"Buy milk"},
		{"op":"add","title":"Buy milk"}
	]}`)
	if got := titles(res.Snapshot); !reflect.DeepEqual(got, []string{"Buy milk"}) {
		t.Errorf("titles: got %v", got)
	}
	if len(res.Notices) != 1 || res.Notices[0].Kind != store.NoticeDuplicate {
		t.Errorf("notices: got %+v", res.Notices)
	}
	if res.Snapshot.At(0).Done {
		t.Error("new task must not be done")
	}
}

func TestToggleTwice(t *testing.T) {
	res := run(t, `{"intents":[
		{"op":"add","title":"A"},
		{"op":"toggle","id":1},
		{"op":"toggle","id":1}
	]}`)
	if res.Snapshot.At(0).Done {
		t.Error("two toggles should leave the task pending")
	}
}

func TestCommitThenCancel(t *testing.T) {
	res := run(t, `{"intents":[
		{"op":"add","title":"Old"},
		{"op":"edit","id":1},
		{"op":"type","id":1,"title":"New"},
		{"op":"commit","id":1},
		{"op":"edit","id":1},
		{"op":"type","id":1,"title":"Other"},
		{"op":"cancel","id":1}
	]}`)
	if got := res.Snapshot.At(0).Title; got != "New" {
		t.Errorf("title: got %q, want New", got)
	}
	if len(res.Editing) != 0 {
		t.Errorf("Editing: got %v, want none", res.Editing)
	}
}

func TestRemoveDeclineThenConfirm(t *testing.T) {
	res := run(t, `{"intents":[
		{"op":"add","title":"A"},
		{"op":"add","title":"B"},
		{"op":"remove","id":1},
		{"op":"remove","id":1,"confirm":true}
	]}`)
	if got := titles(res.Snapshot); !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("titles: got %v, want [B]", got)
	}
	if res.Declined != 1 {
		t.Errorf("Declined: got %d, want 1", res.Declined)
	}
}

func TestRemoveDisabledWhileEditing(t *testing.T) {
	res := run(t, `{"intents":[
		{"op":"add","title":"A"},
		{"op":"edit","index":1},
		{"op":"remove","index":1,"confirm":true}
	]}`)
	if res.Snapshot.Len() != 1 {
		t.Errorf("Len: got %d, want 1", res.Snapshot.Len())
	}
	if !reflect.DeepEqual(res.Editing, []model.ID{1}) {
		t.Errorf("Editing: got %v, want [1]", res.Editing)
	}
}

func TestIntentsOnRemovedTaskAreNoops(t *testing.T) {
	res := run(t, `{"intents":[
		{"op":"add","title":"A"},
		{"op":"add","title":"B"},
		{"op":"remove","id":1,"confirm":true},
		{"op":"toggle","id":1},
		{"op":"rename","id":1,"title":"back"},
		{"op":"edit","id":1},
		{"op":"toggle","index":9}
	]}`)
	if got := titles(res.Snapshot); !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("titles: got %v, want [B]", got)
	}
	if res.Snapshot.At(0).Done {
		t.Error("out of range index must not toggle another task")
	}
}

func TestIndexFollowsDisplayOrder(t *testing.T) {
	res := run(t, `{"intents":[
		{"op":"add","title":"A"},
		{"op":"add","title":"B"},
		{"op":"add","title":"C"},
		{"op":"remove","index":1,"confirm":true},
		{"op":"toggle","index":2}
	]}`)
	if got := titles(res.Snapshot); !reflect.DeepEqual(got, []string{"B", "C"}) {
		t.Fatalf("titles: got %v", got)
	}
	if res.Snapshot.At(0).Done || !res.Snapshot.At(1).Done {
		t.Errorf("only C should be done: %+v", res.Snapshot.Tasks())
	}
}

func TestPointerToPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"/intents", "intents"},
		{"/intents/3/title", "intents[3].title"},
		{"/a~1b", "a/b"},
	}
	for _, tt := range tests {
		if got := pointerToPath(tt.in); got != tt.want {
			t.Errorf("pointerToPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBlankAddSkipped(t *testing.T) {
	res := run(t, `{"intents":[
		{"op":"add","title":"   "},
		{"op":"add","title":"\t"},
		{"op":"add","title":"  Buy milk  "}
	]}`)
	if got := titles(res.Snapshot); !reflect.DeepEqual(got, []string{"Buy milk"}) {
		t.Errorf("titles: got %q, want [Buy milk]", got)
	}
	if res.Blank != 2 {
		t.Errorf("Blank: got %d, want 2", res.Blank)
	}
}

func TestRenameKeepsEmptyTitle(t *testing.T) {
	res := run(t, `{"intents":[
		{"op":"add","title":"A"},
		{"op":"rename","id":1,"title":""}
	]}`)
	if got := res.Snapshot.At(0).Title; got != "" {
		t.Errorf("title: got %q, want empty", got)
	}
}
