package parser

import (
	"fmt"
	"slices"
	"strings"
)

// vamasFile assembles a VAMAS file line by line.
type vamasFile struct {
	lines []string
}

func (f *vamasFile) add(vals ...any) *vamasFile {
	for _, v := range vals {
		f.lines = append(f.lines, fmt.Sprint(v))
	}
	return f
}

func (f *vamasFile) String() string {
	return strings.Join(f.lines, "\n") + "\n"
}

func (f *vamasFile) reader() *strings.Reader {
	return strings.NewReader(f.String())
}

// normHeader writes a NORM/REGULAR header with one experimental variable
// and the given selector.
func normHeader(blocks int, selector ...int) *vamasFile {
	f := &vamasFile{}
	f.add("preamble noise", Signature)
	f.add("Test Institute", "Kratos AXIS", "operator", "experiment 42")
	f.add(1, "a comment line")
	f.add("norm", ScanModeRegular)
	f.add(1) // spectral regions
	f.add(1, "Temperature", "K")
	if len(selector) == 0 {
		f.add(0)
	} else {
		f.add(selector[0])
		for _, id := range selector[1:] {
			f.add(id)
		}
	}
	f.add(0)    // manually entered items
	f.add(0, 0) // future upgrade experiment / block entries
	f.add(blocks)
	return f
}

// xpsBlock writes a complete block for a NORM/REGULAR file with one
// corresponding variable; sourceEnergy lets tests corrupt field 14.
func xpsBlock(f *vamasFile, id string, sourceEnergy string, values ...float64) {
	f.add(id, "sample A")
	f.add(2024, 5, 17, 13, 45, 30)      // 1-6
	f.add(2)                            // 7
	f.add(0)                            // 8
	f.add("xps")                        // 9
	f.add(1.5)                          // 11
	f.add("Al")                         // 12
	f.add(sourceEnergy)                 // 14
	f.add(300)                          // 15
	f.add(100, 100)                     // 16
	f.add(54.7, 0)                      // 19, 20
	f.add("FAT")                        // 21
	f.add(20)                           // 22
	f.add(1, 4.5, 0)                    // 24-26
	f.add(700, 300)                     // 27
	f.add(0, 0)                         // 28
	f.add("C")                          // 29
	f.add("1s", -1)                     // 30
	f.add("Kinetic Energy", "eV", 0, 1) // 31
	f.add(1, "Intensity", "d")          // 32
	f.add("pulse counting", 0.1, 1, 0)  // 33-36
	f.add(0, 0)                         // 38
	f.add(0)                            // 39
	// 40
	f.add(2, "Resolution", "eV", 0.5, "Mode", "", "FAT")
	f.add(len(values))
	f.add(10, 30) // range
	for _, v := range values {
		f.add(v)
	}
}

func indexOf(lines []string, want string) int {
	return slices.Index(lines, want)
}

func insert(lines []string, at int, vals ...string) []string {
	return slices.Insert(lines, at, vals...)
}

func remove(lines []string, at, n int) []string {
	return slices.Delete(lines, at, at+n)
}
