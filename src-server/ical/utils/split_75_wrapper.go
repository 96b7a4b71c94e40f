package utils

import "unicode/utf8"

// Transform a normal writer into a writer that emits one iCalendar content
// line per call: the line is folded every 75 octets and terminated by CRLF.
// Continuation lines start with a single space, which counts toward the
// limit, and a UTF-8 sequence is never split (invalid UTF-8 is folded on
// octets). Example:
//
//	var sb strings.Builder
//	writer := Split75wrapper(sb.WriteString)
//	writer("DESCRIPTION:Hello,world!")
//	fmt.Println(sb.String())
//
// Output: (let's assume it splits into 6-octet lines)
//
//	`DESCRI\r\n
//	 PTION\r\n
//	 :Hello\r\n
//	 ...`
func Split75wrapper(writer func(string) (int, error)) func(string) (int, error) {
	return func(line string) (int, error) {
		written := 0
		limit := 75
		for len(line) > limit {
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				// not UTF-8, fold on octets
				cut = limit
			}
			n, err := writer(line[:cut] + "\r\n ")
			written += n
			if err != nil {
				return written, err
			}
			line = line[cut:]
			limit = 74
		}
		n, err := writer(line + "\r\n")
		written += n
		return written, err
	}
}
