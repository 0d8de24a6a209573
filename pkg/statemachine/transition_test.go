package statemachine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTransitionTable(t *testing.T) {
	table := NewTransitionTable()

	if replaced := table.Set(Off, Click, Const(On)); replaced {
		t.Error("首次注册不应报告覆盖")
	}
	if replaced := table.Set(Off, Click, Const(Half)); !replaced {
		t.Error("重复注册应报告覆盖")
	}
	table.Set(On, Click, Const(Off))
	table.Set(Half, "Dim", Const(Off))

	next, ok := table.Get(Off, Click)
	if !ok || next() != Half {
		t.Errorf("查找结果错误: ok=%v", ok)
	}
	if _, ok := table.Get(Off, "Dim"); ok {
		t.Error("不存在的键不应命中")
	}

	var keys []string
	for _, tr := range table.Transitions() {
		keys = append(keys, string(tr.From)+"/"+string(tr.Event))
	}
	if diff := cmp.Diff([]string{"Half/Dim", "Off/Click", "On/Click"}, keys); diff != "" {
		t.Errorf("转换列表顺序不符 (-want +got):\n%s", diff)
	}

	clone := table.Clone()
	clone.Set("Extra", Click, Const(Off))
	if table.Len() != 3 || clone.Len() != 4 {
		t.Errorf("Clone 应独立: table=%d clone=%d", table.Len(), clone.Len())
	}
}

func TestStateSet(t *testing.T) {
	a := NewStateSet(On, Off)
	b := NewStateSet(Off, Half, "Dim")

	if diff := cmp.Diff([]State{Off}, a.Intersect(b).Sorted()); diff != "" {
		t.Errorf("交集不符 (-want +got):\n%s", diff)
	}
	if NewStateSet("A", "B").Intersect(NewStateSet("C", "D")).Len() != 0 {
		t.Error("不相交集合的交集应为空")
	}

	c := a.Clone()
	c.Add(Half)
	if a.Contains(Half) || !c.Contains(Half) {
		t.Error("Clone 应独立")
	}
}

func TestVersionedEvent(t *testing.T) {
	if got := VersionedEvent(2, Click); got != "v2.Click" {
		t.Errorf("VersionedEvent = %s, want v2.Click", got)
	}

	cases := []struct {
		in      Event
		version int
		base    Event
		ok      bool
	}{
		{"v2.Click", 2, "Click", true},
		{"v10.v1.Click", 10, "v1.Click", true},
		{"Click", 0, "Click", false},
		{"v.Click", 0, "v.Click", false},
		{"vx.Click", 0, "vx.Click", false},
		{"v-1.Click", 0, "v-1.Click", false},
		{"v3.", 3, "", true},
		{"v0.Click", 0, "Click", true},
		{"v01.Click", 0, "v01.Click", false},
		{"v00.Click", 0, "v00.Click", false},
		{"v+1.Click", 0, "v+1.Click", false},
	}
	for _, c := range cases {
		version, base, ok := SplitVersionedEvent(c.in)
		if version != c.version || base != c.base || ok != c.ok {
			t.Errorf("SplitVersionedEvent(%q) = (%d, %q, %v), want (%d, %q, %v)",
				c.in, version, base, ok, c.version, c.base, c.ok)
		}
	}
}

func TestVersionedEvent_RoundTrip(t *testing.T) {
	for _, e := range []Event{"v0.Click", "v2.Click", "v10.v1.Click", "v01.Click", "Click"} {
		version, base, ok := SplitVersionedEvent(e)
		if !ok {
			continue
		}
		if got := VersionedEvent(version, base); got != e {
			t.Errorf("VersionedEvent(SplitVersionedEvent(%q)) = %q", e, got)
		}
	}
}
