package common

// GeneratedMarker is the first line of every generated file. It carries no
// timestamp or path so repeated runs produce identical bytes.
const GeneratedMarker = "Code generated by annogen. DO NOT EDIT."

// FileHeader returns the marker as a comment line using the given comment
// token ("//" or "--").
func FileHeader(comment string) string {
	return comment + " " + GeneratedMarker + "\n"
}
