package constants

// Storage keys
const (
	GuestIDKey = "guest_id"
)

// Remote messages the storefront reacts to. The backend speaks German.
const (
	SEAT_ALREADY_RESERVED = "Der Sitzplatz ist bereits reserviert"
	CART_LOAD_FAILED      = "Fehler beim Laden des Warenkorbs."
	CART_ADD_FAILED       = "Fehler beim Hinzufügen zum Warenkorb."
	CART_REMOVE_FAILED    = "Fehler beim Entfernen aus dem Warenkorb."
	CART_CLEAR_FAILED     = "Fehler beim Leeren des Warenkorbs."
	CART_DISCOUNT_FAILED  = "Fehler beim Aktualisieren des Rabatts."
	UNKNOWN_REMOTE_ERROR  = "Ein unbekannter Fehler ist aufgetreten."
	ITEM_NOT_FOUND        = "Artikel nicht gefunden."
	ITEM_WITHOUT_PFAND    = "Artikel ohne Pfand."
	INVALID_PFAND_AMOUNT  = "Ungültiger Pfandbetrag."
	FILL_ALL_FIELDS       = "Bitte alle Felder ausfüllen."
	INVALID_PFAND_OPTION  = "Bitte wähle eine gültige Pfandoption."
	INPUT_IS_NOT_NUMBER   = "Eingabe ist keine Zahl."
)

// Cart outcome messages shown to the shopper.
const (
	CART_ITEM_ADDED       = "Sitzplatz %s%d wurde zum Warenkorb hinzugefügt."
	CART_ITEM_REMOVED     = "Sitzplatz wurde aus dem Warenkorb entfernt."
	CART_CLEARED          = "Warenkorb wurde geleert."
	CART_DISCOUNT_UPDATED = "Rabatt für Sitzplatz %s%d wurde aktualisiert."
	SEAT_TAKEN_TITLE      = "Sitzplatz bereits reserviert"
	SEAT_TAKEN_HINT       = "Der Sitzplatz ist bereits reserviert. Bitte wähle einen anderen Sitzplatz."
	CART_ITEM_DEGRADED    = "Fehler beim Abrufen der Details für Sitzplatz %d."
)

// Error keys returned to the browser next to the message.
const (
	KEY_SEAT_ALREADY_RESERVED = "SEAT_ALREADY_RESERVED"
	KEY_REMOTE_ERROR          = "REMOTE_ERROR"
	KEY_NETWORK_ERROR         = "NETWORK_ERROR"
	KEY_IDENTITY_UNAVAILABLE  = "IDENTITY_UNAVAILABLE"
)

// Notification kinds pushed over the cart websocket.
const (
	NOTIFY_SUCCESS  = "success"
	NOTIFY_ERROR    = "error"
	NOTIFY_CONFLICT = "conflict"
	NOTIFY_WARNING  = "warning"
)

const TAX_RATE = 0.19
