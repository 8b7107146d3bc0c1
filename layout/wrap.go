package layout

import (
	"fmt"
	"strings"
)

// wrappedLine 是 greedyWrap 产出的一行，宽度单位 pt。
type wrappedLine struct {
	Text  string
	Width float64
}

type measureFunc func(string) (float64, error)

// greedyWrap 贪心换行：优先在空白处断行，单词本身超过 limit 时在词内拆分。
// 显式换行符总是开启新行（空行被忽略）；连续空白折叠为一个空格。
func greedyWrap(content string, limit float64, measure measureFunc) ([]wrappedLine, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("换行宽度必须为正数，当前为 %g", limit)
	}
	var lines []wrappedLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func() {
		if builder.Len() == 0 {
			return
		}
		lines = append(lines, wrappedLine{Text: builder.String(), Width: currentWidth})
		builder.Reset()
		currentWidth = 0
	}

	// appendWord 尝试把 word 接到当前行末尾，放不下则返回 false。
	appendWord := func(word string) (bool, error) {
		candidate := word
		if builder.Len() > 0 {
			candidate = builder.String() + " " + word
		}
		w, err := measure(candidate)
		if err != nil {
			return false, err
		}
		if w > limit {
			return false, nil
		}
		builder.Reset()
		builder.WriteString(candidate)
		currentWidth = w
		return true, nil
	}

	for _, para := range strings.Split(strings.ReplaceAll(content, "\r", ""), "\n") {
		for _, word := range strings.Fields(para) {
			ok, err := appendWord(word)
			if err != nil {
				return nil, err
			}
			if ok {
				continue
			}
			emit()
			if ok, err = appendWord(word); err != nil {
				return nil, err
			} else if ok {
				continue
			}
			chunks, err := splitTokenByWidth(word, limit, measure)
			if err != nil {
				return nil, err
			}
			for _, chunk := range chunks {
				w, err := measure(chunk)
				if err != nil {
					return nil, err
				}
				emit()
				builder.WriteString(chunk)
				currentWidth = w
			}
		}
		emit()
	}
	return lines, nil
}

// splitTokenByWidth 在词内按宽度切分，每段至少保留一个字符。
func splitTokenByWidth(token string, limit float64, measure measureFunc) ([]string, error) {
	var parts []string
	var current []rune
	for _, r := range token {
		next := append(current, r)
		w, err := measure(string(next))
		if err != nil {
			return nil, err
		}
		if w > limit && len(current) > 0 {
			parts = append(parts, string(current))
			current = []rune{r}
			continue
		}
		current = next
	}
	if len(current) > 0 {
		parts = append(parts, string(current))
	}
	return parts, nil
}
