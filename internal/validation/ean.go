package validation

// EANLength is the number of characters in a Belgian energy EAN code.
const EANLength = 18

// ValidateEAN reports whether code is an 18-digit EAN with a correct check
// digit. Digits 1..17 are weighted 3,1,3,1,... from the left, the running sum
// is reduced mod 10 after every step, and the check digit (position 18) must
// equal (10 - sum) mod 10.
//
// Any character other than an ASCII digit makes the code invalid.
func ValidateEAN(code string) bool {
	if len(code) != EANLength {
		return false
	}
	for i := 0; i < EANLength; i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}

	check := 0
	for i := 1; i < EANLength; i++ {
		weight := 1 + 2*(i%2)
		check = (check + weight*int(code[i-1]-'0')) % 10
	}
	check = (10 - check) % 10

	return check == int(code[EANLength-1]-'0')
}
