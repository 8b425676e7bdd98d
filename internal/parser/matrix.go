package parser

// decodeMatrix reads points/nvars rows of nvars values. The division
// truncates: a partial trailing row is left unread. When abscissa is set
// each row starts with the synthesised X value.
func decodeMatrix(c *cursor, nvars, points int, abscissa *Abscissa) ([][]float64, error) {
	rows := points / nvars
	width := nvars
	if abscissa != nil {
		width++
	}
	data := make([][]float64, 0, max(rows, 0))
	for r := 0; r < rows; r++ {
		row := make([]float64, 0, width)
		if abscissa != nil {
			row = append(row, abscissa.At(r))
		}
		for col := 0; col < nvars; col++ {
			v, err := c.nextFloat()
			if err != nil {
				return nil, err
			}
			row = append(row, v)
		}
		data = append(data, row)
	}
	return data, nil
}
