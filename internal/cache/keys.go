package cache

// Ключи кэша и счётчиков. Все сервисы обязаны строить ключи только через эти функции,
// иначе инвалидация после изменений пропустит записи.

// UserKey запись пользователя (публичная проекция).
func UserKey(userID string) string { return "user:" + userID }

// EmailKey индекс email -> id пользователя.
func EmailKey(email string) string { return "user:email:" + email }

// SessionKey копия последнего выданного токена пользователя.
func SessionKey(userID string) string { return "session:" + userID }

// FailedLoginKey счётчик неудачных входов.
func FailedLoginKey(userID string) string { return "failed_login:" + userID }

// OTPRateKey защёлка частоты запросов кода сброса.
func OTPRateKey(email string) string { return "otp_rate:" + email }

// RegistrationKey защёлка частоты регистраций.
func RegistrationKey(email string) string { return "registration_rate:" + email }

// UserKeys все ключи, которые нужно сбросить при изменении или удалении пользователя.
func UserKeys(userID, email string) []string {
	return []string{UserKey(userID), EmailKey(email), SessionKey(userID)}
}

// ProductsKey список товаров каталога.
const ProductsKey = "products:all"
