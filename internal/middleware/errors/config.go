package errors

// ErrorConfig error handling middleware ayarları
type ErrorConfig struct {
	ShowStackTrace  bool           // sadece development
	CustomErrorMap  map[int]string // status code -> kullanıcıya gösterilen mesaj
	IncludeHeaders  []string       // panic sonrası korunan header'lar
	EnablePanicLogs bool
	MaxErrorLength  int
}

// DefaultErrorConfig varsayılan ayarlar
func DefaultErrorConfig() *ErrorConfig {
	return &ErrorConfig{
		CustomErrorMap: map[int]string{
			400: "Geçersiz istek. Lütfen parametrelerinizi kontrol edin.",
			404: "Aradığınız kaynak bulunamadı.",
			405: "HTTP metodu bu endpoint için desteklenmiyor.",
			409: "Çakışma. Bu işlem şu anda gerçekleştirilemiyor.",
			429: "Çok fazla istek. Lütfen daha sonra tekrar deneyin.",
			500: "Sunucu hatası. Bu durum teknik ekibimize bildirildi.",
			502: "Audit servisine ulaşılamıyor. Lütfen daha sonra deneyin.",
		},
		IncludeHeaders:  []string{"X-Request-Id", "X-Ratelimit-Remaining"},
		EnablePanicLogs: true,
		MaxErrorLength:  500,
	}
}

// DevelopmentErrorConfig stack trace response'a eklenir
func DevelopmentErrorConfig() *ErrorConfig {
	config := DefaultErrorConfig()
	config.ShowStackTrace = true
	config.MaxErrorLength = 2000
	return config
}

// ProductionErrorConfig kısa mesajlar, stack yok
func ProductionErrorConfig() *ErrorConfig {
	config := DefaultErrorConfig()
	config.CustomErrorMap[500] = "Bir hata oluştu. Teknik ekibimiz bilgilendirildi."
	config.MaxErrorLength = 200
	return config
}

// ConfigFor ortam adına göre ayarları seçer
func ConfigFor(env string) *ErrorConfig {
	switch env {
	case "development":
		return DevelopmentErrorConfig()
	case "production":
		return ProductionErrorConfig()
	default:
		return DefaultErrorConfig()
	}
}
