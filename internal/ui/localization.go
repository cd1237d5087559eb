package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyEnterLinks        = "enter_links"
	KeyGetInfo           = "get_info"
	KeyStop              = "stop"
	KeyPaste             = "paste"
	KeyDownload          = "download"
	KeyDownloadAll       = "download_all"
	KeyCancel            = "cancel"
	KeyCancelAll         = "cancel_all"
	KeyRemove            = "remove"
	KeyClearCompleted    = "clear_completed"
	KeyOpen              = "open"
	KeyReveal            = "reveal"
	KeySettings          = "settings"
	KeySave              = "save"
	KeyBrowse            = "browse"
	KeySortBy            = "sort_by"
	KeySortTitleAsc      = "sort_title_asc"
	KeySortTitleDesc     = "sort_title_desc"
	KeySortStatusAsc     = "sort_status_asc"
	KeySortStatusDesc    = "sort_status_desc"
	KeySortOriginal      = "sort_original"
	KeyDownloadDirectory = "download_directory"
	KeyMaxParallel       = "max_parallel"
	KeyDefaultResolution = "default_resolution"
	KeyAutoReveal        = "auto_reveal"
	KeySettingsSaved     = "settings_saved"
	KeyFetching          = "fetching"
	KeyFetchDone         = "fetch_done"
	KeyFetchStopped      = "fetch_stopped"
	KeyFetchFailures     = "fetch_failures"
	KeyNoLinks           = "no_links"
	KeyDownloadCompleted = "download_completed"
	KeyDownloadFailed    = "download_failed"
	KeyErrorOpeningFile  = "error_opening_file"
	KeyActiveDownloads   = "active_downloads"
	KeyStatusPending     = "status_pending"
	KeyStatusQueued      = "status_queued"
	KeyStatusDownloading = "status_downloading"
	KeyStatusCompleted   = "status_completed"
	KeyStatusCancelled   = "status_cancelled"
	KeyClearCache        = "clear_cache"
	KeyClearCacheConfirm = "clear_cache_confirm"
	KeyCacheCleared      = "cache_cleared"
	KeyResetSettings     = "reset_settings"
	KeyResetConfirm      = "reset_settings_confirm"
	KeyRemoveConfirm     = "remove_confirm"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. Unknown languages are ignored.
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// initializeTexts sets up all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "YT Queue",
		KeyEnterLinks:        "Paste video or playlist links, or search terms, one per line",
		KeyGetInfo:           "Get Info",
		KeyStop:              "Stop",
		KeyPaste:             "Paste",
		KeyDownload:          "Download",
		KeyDownloadAll:       "Download All",
		KeyCancel:            "Cancel",
		KeyCancelAll:         "Cancel All",
		KeyRemove:            "Remove",
		KeyClearCompleted:    "Clear Completed",
		KeyOpen:              "Open",
		KeyReveal:            "Reveal",
		KeySettings:          "Settings",
		KeySave:              "Save",
		KeyBrowse:            "Browse",
		KeySortBy:            "Sort",
		KeySortTitleAsc:      "Title A-Z",
		KeySortTitleDesc:     "Title Z-A",
		KeySortStatusAsc:     "Status ↑",
		KeySortStatusDesc:    "Status ↓",
		KeySortOriginal:      "Original order",
		KeyDownloadDirectory: "Download Directory",
		KeyMaxParallel:       "Max Parallel Downloads",
		KeyDefaultResolution: "Default Resolution",
		KeyAutoReveal:        "Reveal finished files",
		KeySettingsSaved:     "Settings saved",
		KeyFetching:          "Fetching video info...",
		KeyFetchDone:         "Added %d video(s)",
		KeyFetchStopped:      "Fetching stopped, added %d video(s)",
		KeyFetchFailures:     "%d of %d link(s) could not be resolved",
		KeyNoLinks:           "Nothing to fetch: enter at least one link or search term",
		KeyDownloadCompleted: "Download completed",
		KeyDownloadFailed:    "Download failed",
		KeyErrorOpeningFile:  "Error opening file",
		KeyActiveDownloads:   "Downloading %d of max %d",
		KeyStatusPending:     "Pending",
		KeyStatusQueued:      "Queued",
		KeyStatusDownloading: "Downloading",
		KeyStatusCompleted:   "Completed",
		KeyStatusCancelled:   "Cancelled",
		KeyClearCache:        "Clear Cache",
		KeyClearCacheConfirm: "Delete cached video info and thumbnails?",
		KeyCacheCleared:      "Cache cleared",
		KeyResetSettings:     "Clear Settings",
		KeyResetConfirm:      "Restore all settings to their defaults?",
		KeyRemoveConfirm:     "Remove \"%s\" from the queue?",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "YT Queue",
		KeyEnterLinks:        "Вставьте ссылки на видео или плейлисты либо поисковые запросы, по одному в строке",
		KeyGetInfo:           "Получить",
		KeyStop:              "Стоп",
		KeyPaste:             "Вставить",
		KeyDownload:          "Скачать",
		KeyDownloadAll:       "Скачать все",
		KeyCancel:            "Отмена",
		KeyCancelAll:         "Отменить все",
		KeyRemove:            "Удалить",
		KeyClearCompleted:    "Убрать завершённые",
		KeyOpen:              "Открыть",
		KeyReveal:            "Показать",
		KeySettings:          "Настройки",
		KeySave:              "Сохранить",
		KeyBrowse:            "Обзор",
		KeySortBy:            "Сортировка",
		KeySortTitleAsc:      "Название А-Я",
		KeySortTitleDesc:     "Название Я-А",
		KeySortStatusAsc:     "Статус ↑",
		KeySortStatusDesc:    "Статус ↓",
		KeySortOriginal:      "Исходный порядок",
		KeyDownloadDirectory: "Папка загрузок",
		KeyMaxParallel:       "Параллельных загрузок",
		KeyDefaultResolution: "Разрешение по умолчанию",
		KeyAutoReveal:        "Показывать готовые файлы",
		KeySettingsSaved:     "Настройки сохранены",
		KeyFetching:          "Получение информации...",
		KeyFetchDone:         "Добавлено видео: %d",
		KeyFetchStopped:      "Получение остановлено, добавлено видео: %d",
		KeyFetchFailures:     "Не удалось обработать ссылок: %d из %d",
		KeyNoLinks:           "Введите хотя бы одну ссылку или запрос",
		KeyDownloadCompleted: "Загрузка завершена",
		KeyDownloadFailed:    "Ошибка загрузки",
		KeyErrorOpeningFile:  "Ошибка открытия файла",
		KeyActiveDownloads:   "Загружается %d из %d",
		KeyStatusPending:     "Ожидает",
		KeyStatusQueued:      "В очереди",
		KeyStatusDownloading: "Загрузка",
		KeyStatusCompleted:   "Готово",
		KeyStatusCancelled:   "Отменено",
		KeyClearCache:        "Очистить кэш",
		KeyClearCacheConfirm: "Удалить сохранённые сведения о видео и миниатюры?",
		KeyCacheCleared:      "Кэш очищен",
		KeyResetSettings:     "Сбросить настройки",
		KeyResetConfirm:      "Вернуть все настройки к значениям по умолчанию?",
		KeyRemoveConfirm:     "Убрать «%s» из очереди?",
	}
}
