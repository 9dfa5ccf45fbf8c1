package utility

// Remove deletes the element at index s, reusing the backing array.
func Remove[T any](slice []T, s int) []T {
	return append(slice[:s], slice[s+1:]...)
}
