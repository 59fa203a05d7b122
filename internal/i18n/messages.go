package i18n

import "golang.org/x/text/language"

// Message keys.
const (
	MsgInvalidBody          = "invalid_body"
	MsgValidationFailed     = "validation_failed"
	MsgInternal             = "internal"
	MsgNotFound             = "not_found"
	MsgLoadFailed           = "load_failed"
	MsgUnauthorized         = "unauthorized"
	MsgForbidden            = "forbidden"
	MsgProductNotFound      = "product_not_found"
	MsgDuplicateRating      = "duplicate_rating"
	MsgPromoInvalid         = "promo_invalid"
	MsgPromoExpired         = "promo_expired"
	MsgPromoNotStarted      = "promo_not_started"
	MsgReservationInvalid   = "reservation_invalid"
	MsgReservationCreated   = "reservation_created"
	MsgReservationDuplicate = "reservation_duplicate"
	MsgUnknownKind          = "unknown_kind"
	MsgUnknownBucket        = "unknown_bucket"
	MsgInvalidStatus        = "invalid_status"
	MsgCartUpdated          = "cart_updated"
	MsgDeleted              = "deleted"
	MsgRegistered           = "registered"
	MsgLoggedIn             = "logged_in"
	MsgLoginFailed          = "login_failed"
	MsgAccountExists        = "account_exists"
	MsgInvalidQuantity      = "invalid_quantity"
	MsgCartItemNotFound     = "cart_item_not_found"
	MsgServiceNotFound      = "service_not_found"
	MsgInvalidRating        = "invalid_rating"
	MsgDraftNotFound        = "draft_not_found"
	MsgInvalidDraft         = "invalid_draft"
	MsgConflict             = "conflict"
)

var supported = []language.Tag{language.French, language.Arabic, language.English}

var matcher = language.NewMatcher(supported)

var catalog = map[string][3]string{ // fr, ar, en
	MsgInvalidBody:          {"Requête invalide", "طلب غير صالح", "Invalid request body"},
	MsgValidationFailed:     {"Veuillez remplir les champs obligatoires", "يرجى ملء الحقول المطلوبة", "Validation failed"},
	MsgInternal:             {"Une erreur est survenue, veuillez réessayer", "حدث خطأ، يرجى المحاولة مرة أخرى", "Something went wrong, please retry"},
	MsgNotFound:             {"Élément introuvable", "العنصر غير موجود", "Not found"},
	MsgLoadFailed:           {"Impossible de charger les données", "تعذر تحميل البيانات", "Could not load data"},
	MsgUnauthorized:         {"Authentification requise", "يجب تسجيل الدخول", "Authentication required"},
	MsgForbidden:            {"Accès refusé", "تم رفض الوصول", "Access denied"},
	MsgProductNotFound:      {"Produit introuvable", "المنتج غير موجود", "Product not found"},
	MsgDuplicateRating:      {"Vous avez déjà noté ce produit", "لقد قمت بتقييم هذا المنتج مسبقا", "You already rated this product"},
	MsgPromoInvalid:         {"Code promo invalide", "رمز الخصم غير صالح", "Invalid promo code"},
	MsgPromoExpired:         {"Code promo expiré", "انتهت صلاحية رمز الخصم", "Promo code expired"},
	MsgPromoNotStarted:      {"Code promo pas encore actif", "رمز الخصم غير مفعل بعد", "Promo code not active yet"},
	MsgReservationInvalid:   {"Veuillez compléter la réservation", "يرجى إكمال الحجز", "Please complete the reservation"},
	MsgReservationCreated:   {"Réservation envoyée avec succès", "تم إرسال الحجز بنجاح", "Reservation sent successfully"},
	MsgReservationDuplicate: {"Réservation déjà enregistrée", "تم تسجيل الحجز مسبقا", "Reservation already recorded"},
	MsgUnknownKind:          {"Type de réservation inconnu", "نوع الحجز غير معروف", "Unknown reservation type"},
	MsgUnknownBucket:        {"Catégorie inconnue", "فئة غير معروفة", "Unknown category"},
	MsgInvalidStatus:        {"Statut invalide", "حالة غير صالحة", "Invalid status"},
	MsgCartUpdated:          {"Panier mis à jour", "تم تحديث السلة", "Cart updated"},
	MsgDeleted:              {"Supprimé avec succès", "تم الحذف بنجاح", "Deleted successfully"},
	MsgRegistered:           {"Compte créé avec succès", "تم إنشاء الحساب بنجاح", "User registered successfully"},
	MsgLoggedIn:             {"Connexion réussie", "تم تسجيل الدخول بنجاح", "Login successful"},
	MsgLoginFailed:          {"Identifiants incorrects", "بيانات الدخول غير صحيحة", "Authentication failed"},
	MsgAccountExists:        {"Ce compte existe déjà", "هذا الحساب موجود مسبقا", "Account already exists"},
	MsgInvalidQuantity:      {"La quantité doit être au moins 1", "يجب أن تكون الكمية 1 على الأقل", "Quantity must be at least 1"},
	MsgCartItemNotFound:     {"Article absent du panier", "المنتج غير موجود في السلة", "Item not in cart"},
	MsgServiceNotFound:      {"Service introuvable", "الخدمة غير موجودة", "Service not found"},
	MsgInvalidRating:        {"La note doit être entre 1 et 5", "يجب أن يكون التقييم بين 1 و 5", "Rating must be between 1 and 5"},
	MsgDraftNotFound:        {"Aucun brouillon de réservation", "لا توجد مسودة حجز", "No booking draft"},
	MsgInvalidDraft:         {"Brouillon invalide", "مسودة غير صالحة", "Invalid draft"},
	MsgConflict:             {"Cet élément existe déjà", "هذا العنصر موجود مسبقا", "Already exists"},
}

// Lang picks "fr", "ar" or "en" from an Accept-Language header. French is the default.
func Lang(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return "fr"
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return "fr"
	}
	switch supported[idx] {
	case language.Arabic:
		return "ar"
	case language.English:
		return "en"
	default:
		return "fr"
	}
}

// T returns the message for key in lang, falling back to French, then to the key itself.
func T(lang, key string) string {
	msgs, ok := catalog[key]
	if !ok {
		return key
	}
	switch lang {
	case "ar":
		return msgs[1]
	case "en":
		return msgs[2]
	default:
		return msgs[0]
	}
}
