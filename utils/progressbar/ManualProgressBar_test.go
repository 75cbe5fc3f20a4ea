package progressbar

import (
	"bytes"
	"strings"
	"testing"
)

func TestManualProgressBar(t *testing.T) {
	var out bytes.Buffer
	p := NewManualProgressBar(&out, 10, 4)

	for i := 0; i < 6; i++ {
		p.Increment()
	}
	if p.Fraction() != 1 {
		t.Errorf("progress should saturate at 1, have %v", p.Fraction())
	}

	p.Display("return=200")
	p.Finish()

	got := out.String()
	if !strings.Contains(got, "100.00%") {
		t.Errorf("want full progress in output, have %q", got)
	}
	if !strings.Contains(got, "return=200") {
		t.Errorf("want message in output, have %q", got)
	}
	if strings.Count(p.String(), "█") != 10 {
		t.Errorf("full bar should be 10 blocks wide: %q", p.String())
	}
}

func TestManualProgressBarPartial(t *testing.T) {
	p := NewManualProgressBar(&bytes.Buffer{}, 10, 4)
	p.Increment()

	if p.Fraction() != 0.25 {
		t.Errorf("want fraction 0.25, have %v", p.Fraction())
	}
	if n := strings.Count(p.String(), "█"); n != 3 {
		t.Errorf("want 3 blocks for 25%% of width 10, have %v", n)
	}
}
