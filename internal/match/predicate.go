package match

import "tetatet/backend/internal/models"

// IsMatch перевіряє взаємну сумісність двох учасників: кожен має
// задовольняти фільтри статі та віку іншого. Чиста функція, без I/O.
// Перевірку "сам із собою" виконує викликач за ID до виклику предиката.
func IsMatch(a, b models.Participant) bool {
	if !genderAccepts(b.FindGender, a.Gender) || !genderAccepts(a.FindGender, b.Gender) {
		return false
	}
	// Межі вікового діапазону включні з обох боків.
	return b.AgeFrom <= a.Age && a.Age <= b.AgeTo &&
		a.AgeFrom <= b.Age && b.Age <= a.AgeTo
}

// genderAccepts: "any" приймає будь-яку стать без порівняння значення.
func genderAccepts(findGender, gender string) bool {
	return findGender == "any" || findGender == gender
}
