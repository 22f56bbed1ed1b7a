package loader

func getMagic(data []byte, n int) []byte {
	if len(data) < n {
		return nil
	}
	return data[:n]
}
