package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

// mockAuthService implements driving.AuthService for testing.
type mockAuthService struct {
	auth       *domain.DeviceAuthorization
	record     *domain.TokenRecord
	loginErr   error
	statusErr  error
	refreshErr error
	logoutErr  error

	refreshCalls int
	loggedOut    bool
}

func (m *mockAuthService) Login(_ context.Context, onCode func(*domain.DeviceAuthorization)) (*domain.TokenRecord, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	if onCode != nil && m.auth != nil {
		onCode(m.auth)
	}
	return m.record, nil
}

func (m *mockAuthService) Status(_ context.Context) (*domain.TokenRecord, error) {
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	return m.record, nil
}

func (m *mockAuthService) Refresh(_ context.Context) (*domain.TokenRecord, error) {
	m.refreshCalls++
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	return m.record, nil
}

func (m *mockAuthService) Logout(_ context.Context) error {
	m.loggedOut = true
	return m.logoutErr
}

// mockMailService implements driving.MailService for testing.
type mockMailService struct {
	messages    []domain.MailMessage
	message     *domain.MailMessage
	moved       *domain.MailMessage
	folders     []domain.MailFolder
	attachments []domain.Attachment
	savedPath   string
	err         error

	listFolder   string
	listOpts     domain.MailListOptions
	got          string
	sent         *domain.SendMailInput
	replyID      string
	replyComment string
	replyAll     bool
	forwardID    string
	forwardTo    []string
	moveID       string
	moveFolder   string
	deleted      []string
	markedID     string
	markedRead   bool
	saveMsgID    string
	saveAttID    string
	saveDir      string
}

func (m *mockMailService) List(_ context.Context, folder string, opts domain.MailListOptions) ([]domain.MailMessage, error) {
	m.listFolder, m.listOpts = folder, opts
	return m.messages, m.err
}

func (m *mockMailService) Get(_ context.Context, id string) (*domain.MailMessage, error) {
	m.got = id
	if m.err != nil {
		return nil, m.err
	}
	if m.message != nil {
		return m.message, nil
	}
	return &domain.MailMessage{ID: id}, nil
}

func (m *mockMailService) Send(_ context.Context, input domain.SendMailInput) error {
	m.sent = &input
	return m.err
}

func (m *mockMailService) Reply(_ context.Context, id, comment string, replyAll bool) error {
	m.replyID, m.replyComment, m.replyAll = id, comment, replyAll
	return m.err
}

func (m *mockMailService) Forward(_ context.Context, id string, to []string, comment string) error {
	m.forwardID, m.forwardTo, m.replyComment = id, to, comment
	return m.err
}

func (m *mockMailService) Move(_ context.Context, id, folder string) (*domain.MailMessage, error) {
	m.moveID, m.moveFolder = id, folder
	if m.err != nil {
		return nil, m.err
	}
	if m.moved != nil {
		return m.moved, nil
	}
	return &domain.MailMessage{ID: id + "-moved"}, nil
}

func (m *mockMailService) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return m.err
}

func (m *mockMailService) MarkRead(_ context.Context, id string, read bool) error {
	m.markedID, m.markedRead = id, read
	return m.err
}

func (m *mockMailService) Folders(_ context.Context) ([]domain.MailFolder, error) {
	return m.folders, m.err
}

func (m *mockMailService) Attachments(_ context.Context, _ string) ([]domain.Attachment, error) {
	return m.attachments, m.err
}

func (m *mockMailService) SaveAttachment(_ context.Context, messageID, attachmentID, dir string) (string, error) {
	m.saveMsgID, m.saveAttID, m.saveDir = messageID, attachmentID, dir
	if m.err != nil {
		return "", m.err
	}
	if m.savedPath != "" {
		return m.savedPath, nil
	}
	return dir + "/attachment.bin", nil
}

// mockChatService implements driving.ChatService for testing.
type mockChatService struct {
	chats    []domain.Chat
	chat     *domain.Chat
	messages []domain.ChatMessage
	matches  []domain.MessageMatch
	err      error

	listFilter   string
	listLimit    int
	resolvedRef  string
	historyRef   string
	historyLimit int
	historySince time.Time
	sendRef      string
	sendText     string
	searchQuery  string
	searchOpts   domain.SearchOptions
}

func (m *mockChatService) List(_ context.Context, filter string, limit int) ([]domain.Chat, error) {
	m.listFilter, m.listLimit = filter, limit
	return m.chats, m.err
}

func (m *mockChatService) Resolve(_ context.Context, ref string) (*domain.Chat, error) {
	m.resolvedRef = ref
	if m.err != nil {
		return nil, m.err
	}
	if m.chat != nil {
		return m.chat, nil
	}
	return &domain.Chat{ID: "19:resolved@thread.v2"}, nil
}

func (m *mockChatService) History(_ context.Context, ref string, limit int, since time.Time) ([]domain.ChatMessage, error) {
	m.historyRef, m.historyLimit, m.historySince = ref, limit, since
	return m.messages, m.err
}

func (m *mockChatService) Send(_ context.Context, ref, text string) (*domain.ChatMessage, error) {
	m.sendRef, m.sendText = ref, text
	if m.err != nil {
		return nil, m.err
	}
	return &domain.ChatMessage{ID: "msg-1", Body: domain.ItemBody{Content: text}}, nil
}

func (m *mockChatService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.MessageMatch, error) {
	m.searchQuery, m.searchOpts = query, opts
	return m.matches, m.err
}

// mockCalendarService implements driving.CalendarService for testing.
type mockCalendarService struct {
	events    []domain.Event
	event     *domain.Event
	created   *domain.Event
	calendars []domain.Calendar
	owned     *domain.Calendar
	err       error

	agendaOpts     domain.AgendaOptions
	createInput    domain.CreateEventInput
	respondID      string
	response       domain.EventResponse
	respondComment string
	deletedID      string
	ownerQuery     string
}

func (m *mockCalendarService) Agenda(_ context.Context, opts domain.AgendaOptions) ([]domain.Event, error) {
	m.agendaOpts = opts
	return m.events, m.err
}

func (m *mockCalendarService) Get(_ context.Context, id string) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.event != nil {
		return m.event, nil
	}
	return &domain.Event{ID: id}, nil
}

func (m *mockCalendarService) Calendars(_ context.Context) ([]domain.Calendar, error) {
	return m.calendars, m.err
}

func (m *mockCalendarService) FindCalendarByOwner(_ context.Context, email string) (*domain.Calendar, error) {
	m.ownerQuery = email
	if m.err != nil {
		return nil, m.err
	}
	if m.owned == nil {
		return nil, fmt.Errorf("%w: no shared calendar owned by %s", domain.ErrNotFound, email)
	}
	return m.owned, nil
}

func (m *mockCalendarService) Create(_ context.Context, input domain.CreateEventInput) (*domain.Event, error) {
	m.createInput = input
	if m.err != nil {
		return nil, m.err
	}
	if m.created != nil {
		return m.created, nil
	}
	return &domain.Event{ID: "evt-new", Subject: input.Subject}, nil
}

func (m *mockCalendarService) Respond(_ context.Context, id string, response domain.EventResponse, comment string) error {
	m.respondID, m.response, m.respondComment = id, response, comment
	return m.err
}

func (m *mockCalendarService) Delete(_ context.Context, id string) error {
	m.deletedID = id
	return m.err
}

// mockFilesService implements driving.FilesService for testing.
type mockFilesService struct {
	drives   []domain.Drive
	items    []domain.DriveItem
	found    []domain.DriveItem
	uploaded *domain.DriveItem
	folder   *domain.DriveItem
	path     string
	err      error

	listDrive     string
	listPath      string
	listOpts      domain.FileListOptions
	searchDrive   string
	searchQuery   string
	searchOpts    domain.FileSearchOptions
	downloadDrive string
	downloadPath  string
	downloadDest  string
	uploadDrive   string
	uploadLocal   string
	uploadRemote  string
	deleteDrive   string
	deletePath    string
	mkdirDrive    string
	mkdirParent   string
	mkdirName     string
}

func (m *mockFilesService) Drives(_ context.Context) ([]domain.Drive, error) {
	return m.drives, m.err
}

func (m *mockFilesService) List(_ context.Context, driveRef, path string, opts domain.FileListOptions) ([]domain.DriveItem, error) {
	m.listDrive, m.listPath, m.listOpts = driveRef, path, opts
	return m.items, m.err
}

func (m *mockFilesService) Search(_ context.Context, driveRef, query string, opts domain.FileSearchOptions) ([]domain.DriveItem, error) {
	m.searchDrive, m.searchQuery, m.searchOpts = driveRef, query, opts
	return m.found, m.err
}

func (m *mockFilesService) Download(_ context.Context, driveRef, path, destDir string) (string, error) {
	m.downloadDrive, m.downloadPath, m.downloadDest = driveRef, path, destDir
	if m.err != nil {
		return "", m.err
	}
	if m.path != "" {
		return m.path, nil
	}
	return destDir + "/downloaded.bin", nil
}

func (m *mockFilesService) Upload(_ context.Context, driveRef, localPath, remoteDir string) (*domain.DriveItem, error) {
	m.uploadDrive, m.uploadLocal, m.uploadRemote = driveRef, localPath, remoteDir
	if m.err != nil {
		return nil, m.err
	}
	if m.uploaded != nil {
		return m.uploaded, nil
	}
	return &domain.DriveItem{ID: "item-up", Name: "uploaded.bin"}, nil
}

func (m *mockFilesService) Delete(_ context.Context, driveRef, path string) error {
	m.deleteDrive, m.deletePath = driveRef, path
	return m.err
}

func (m *mockFilesService) Mkdir(_ context.Context, driveRef, parentPath, name string) (*domain.DriveItem, error) {
	m.mkdirDrive, m.mkdirParent, m.mkdirName = driveRef, parentPath, name
	if m.err != nil {
		return nil, m.err
	}
	if m.folder != nil {
		return m.folder, nil
	}
	return &domain.DriveItem{ID: "folder-new", Name: name, Folder: &domain.FolderFacet{}}, nil
}

// mockContactsService implements driving.ContactsService for testing.
type mockContactsService struct {
	contacts []domain.Contact
	people   []domain.Person
	matches  []domain.Person
	person   *domain.Person
	err      error

	searchQuery  string
	resolveQuery string
}

func (m *mockContactsService) Contacts(_ context.Context) ([]domain.Contact, error) {
	return m.contacts, m.err
}

func (m *mockContactsService) People(_ context.Context) ([]domain.Person, error) {
	return m.people, m.err
}

func (m *mockContactsService) Search(_ context.Context, query string) ([]domain.Person, error) {
	m.searchQuery = query
	return m.matches, m.err
}

func (m *mockContactsService) Resolve(_ context.Context, query string) (*domain.Person, error) {
	m.resolveQuery = query
	if m.err != nil {
		return nil, m.err
	}
	if m.person == nil {
		return nil, fmt.Errorf("%w: no match for %q", domain.ErrNotFound, query)
	}
	return m.person, nil
}

// mockRecordingsService implements driving.RecordingsService for testing.
type mockRecordingsService struct {
	recordings    []domain.DriveItem
	searched      []domain.DriveItem
	transcript    domain.Transcript
	transcriptErr error
	raw           string
	path          string
	err           error

	listOpts     domain.RecordingListOptions
	searchQuery  string
	searchOpts   domain.RecordingListOptions
	downloadID   string
	downloadDest string
	transcriptID string
	rawID        string
}

func (m *mockRecordingsService) List(_ context.Context, opts domain.RecordingListOptions) ([]domain.DriveItem, error) {
	m.listOpts = opts
	return m.recordings, m.err
}

func (m *mockRecordingsService) Search(_ context.Context, query string, opts domain.RecordingListOptions) ([]domain.DriveItem, error) {
	m.searchQuery, m.searchOpts = query, opts
	return m.searched, m.err
}

func (m *mockRecordingsService) Info(_ context.Context, id string) (*domain.DriveItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.DriveItem{ID: id}, nil
}

func (m *mockRecordingsService) Download(_ context.Context, id, destDir string) (string, error) {
	m.downloadID, m.downloadDest = id, destDir
	if m.err != nil {
		return "", m.err
	}
	if m.path != "" {
		return m.path, nil
	}
	return destDir + "/recording.mp4", nil
}

func (m *mockRecordingsService) Transcript(_ context.Context, id string) (domain.Transcript, error) {
	m.transcriptID = id
	if m.transcriptErr != nil {
		return nil, m.transcriptErr
	}
	return m.transcript, m.err
}

func (m *mockRecordingsService) RawTranscript(_ context.Context, id string) (string, error) {
	m.rawID = id
	return m.raw, m.err
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	values   map[string]any
	filePath string
	setErr   error

	setKey   string
	setValue string
	unsetKey string
}

func (m *mockSettingsService) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.setKey, m.setValue = key, value
	if m.values == nil {
		m.values = make(map[string]any)
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) Unset(key string) error {
	m.unsetKey = key
	if _, ok := m.values[key]; !ok {
		return fmt.Errorf("%w: %s is not set", domain.ErrNotFound, key)
	}
	delete(m.values, key)
	return nil
}

func (m *mockSettingsService) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *mockSettingsService) Path() string {
	if m.filePath == "" {
		return "/tmp/o365/config.toml"
	}
	return m.filePath
}

// setupTestServices installs mock services for every command group and
// marks the wiring done so the root command never connects the real
// adapters. The returned cleanup restores the previous state. Tests
// that need canned data assign their own mock to the service variable
// after calling this.
func setupTestServices() func() {
	oldAuth := authService
	oldMail := mailService
	oldChat := chatService
	oldCalendar := calendarService
	oldFiles := filesService
	oldContacts := contactsService
	oldRecordings := recordingsService
	oldSettings := settingsService
	oldWired := wired

	authService = &mockAuthService{record: &domain.TokenRecord{AccessToken: "token"}}
	mailService = &mockMailService{}
	chatService = &mockChatService{}
	calendarService = &mockCalendarService{}
	filesService = &mockFilesService{}
	contactsService = &mockContactsService{}
	recordingsService = &mockRecordingsService{}
	settingsService = &mockSettingsService{}
	wired = true
	resetFlags()

	return func() {
		authService = oldAuth
		mailService = oldMail
		chatService = oldChat
		calendarService = oldCalendar
		filesService = oldFiles
		contactsService = oldContacts
		recordingsService = oldRecordings
		settingsService = oldSettings
		wired = oldWired
		resetFlags()
	}
}

// resetFlags returns every command flag variable to its default so
// values set by one test cannot leak into the next.
func resetFlags() {
	verbose, configDir = false, ""

	authLoginNoRefresh = false

	mailListFolder, mailListSince, mailListSearch = "", "", ""
	mailListTop, mailListMax = 0, 0
	mailListUnread, mailListJSON, mailReadJSON = false, false, false
	mailSendTo, mailSendCc, mailSendBcc = nil, nil, nil
	mailSendSubject, mailSendBody = "", ""
	mailSendHTML, mailReplyAll = false, false
	mailReplyBody, mailForwardBody = "", ""
	mailForwardTo = nil
	mailMarkUnread = false
	mailAttachmentsSave = ""

	calendarListFrom, calendarListTo, calendarListCalendar = "", "", ""
	calendarListMax = 0
	calendarListJSON = false
	calendarCreateSubject, calendarCreateStart, calendarCreateEnd = "", "", ""
	calendarCreateLocation, calendarCreateBody = "", ""
	calendarCreateAttendees, calendarCreateOptional = nil, nil
	calendarCreateOnline = false
	calendarRespondComment = ""

	chatListMax, chatMessagesMax, chatSearchLimit = 0, 0, 0
	chatListFilter, chatMessagesSince = "", ""
	chatSearchChat, chatSearchSince = "", ""
	chatListJSON, chatMessagesJSON, chatSearchJSON = false, false, false

	filesListDrive, filesListSince = "", ""
	filesListRecursive, filesListJSON = false, false
	filesSearchDrive, filesSearchType, filesSearchSince = "", "", ""
	filesSearchMax = 0
	filesDownloadDrive, filesDownloadOut = "", ""
	filesUploadDrive, filesDeleteDrive, filesMkdirDrive = "", "", ""

	recordingsListMax, recordingsSearchMax = 0, 0
	recordingsListSince, recordingsListBefore, recordingsSearchSince = "", "", ""
	recordingsDownloadOut = ""
	recordingsTranscriptJSON, recordingsTranscriptRaw = false, false

	contactsListJSON, contactsSearchResolve, contactsSearchJSON = false, false, false

	configSetSecret = false
}
