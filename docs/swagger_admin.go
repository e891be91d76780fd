package docs

// @title           CarPool Admin API
// @version         1.0
// @description     Admin dashboard service for CarPool. Reconciles driver payments, builds monthly revenue and ride statistics, and exports CSV/XLSX reports from the CarPool backend.

// @contact.name   CarPool Admin
// @contact.url    https://github.com/Temutjin2k/carpool-admin

// @host      localhost:3004
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the admin session token. It is only decoded for request logging.
