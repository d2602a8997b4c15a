package concat

import (
	"fmt"
	"strconv"
	"strings"
)

// FilterGraph builds the ffmpeg filter_complex expression that pads every
// input except the last with trailing silence and concatenates the padded
// streams in input order. Exactly inputCount-1 silence gaps are produced; no
// silence trails the final input.
func FilterGraph(inputCount int, silenceSeconds float64) string {
	if inputCount <= 0 {
		return ""
	}
	if silenceSeconds < 0 {
		silenceSeconds = 0
	}

	var graph strings.Builder
	labels := make([]string, 0, inputCount)

	if silenceSeconds > 0 {
		pad := strconv.FormatFloat(silenceSeconds, 'f', -1, 64)
		for i := 0; i < inputCount-1; i++ {
			fmt.Fprintf(&graph, "[%d:a]apad=pad_dur=%s[a%d];", i, pad, i)
			labels = append(labels, fmt.Sprintf("[a%d]", i))
		}
	} else {
		for i := 0; i < inputCount-1; i++ {
			labels = append(labels, fmt.Sprintf("[%d:a]", i))
		}
	}
	labels = append(labels, fmt.Sprintf("[%d:a]", inputCount-1))

	graph.WriteString(strings.Join(labels, ""))
	fmt.Fprintf(&graph, "concat=n=%d:v=0:a=1[out]", inputCount)
	return graph.String()
}
