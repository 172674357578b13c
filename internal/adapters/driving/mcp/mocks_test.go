package mcp

import (
	"context"
	"sort"
	"time"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

// testPorts returns a Ports with all required services mocked. Tests
// override individual fields to install canned data.
func testPorts() *Ports {
	return &Ports{
		Mail:     &mockMailService{},
		Chat:     &mockChatService{},
		Calendar: &mockCalendarService{},
		Drive:    &mockFilesService{},
	}
}

// mockMailService is a mock implementation of driving.MailService.
type mockMailService struct {
	messages    []domain.MailMessage
	message     *domain.MailMessage
	folders     []domain.MailFolder
	attachments []domain.Attachment
	savedPath   string
	err         error

	listFolder string
	listOpts   domain.MailListOptions
	sent       *domain.SendMailInput
}

func (m *mockMailService) List(_ context.Context, folder string, opts domain.MailListOptions) ([]domain.MailMessage, error) {
	m.listFolder = folder
	m.listOpts = opts
	return m.messages, m.err
}

func (m *mockMailService) Get(_ context.Context, _ string) (*domain.MailMessage, error) {
	return m.message, m.err
}

func (m *mockMailService) Send(_ context.Context, input domain.SendMailInput) error {
	m.sent = &input
	return m.err
}

func (m *mockMailService) Reply(_ context.Context, _, _ string, _ bool) error {
	return m.err
}

func (m *mockMailService) Forward(_ context.Context, _ string, _ []string, _ string) error {
	return m.err
}

func (m *mockMailService) Move(_ context.Context, _, _ string) (*domain.MailMessage, error) {
	return m.message, m.err
}

func (m *mockMailService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockMailService) MarkRead(_ context.Context, _ string, _ bool) error {
	return m.err
}

func (m *mockMailService) Folders(_ context.Context) ([]domain.MailFolder, error) {
	return m.folders, m.err
}

func (m *mockMailService) Attachments(_ context.Context, _ string) ([]domain.Attachment, error) {
	return m.attachments, m.err
}

func (m *mockMailService) SaveAttachment(_ context.Context, _, _, _ string) (string, error) {
	return m.savedPath, m.err
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	chats    []domain.Chat
	chat     *domain.Chat
	messages []domain.ChatMessage
	sent     *domain.ChatMessage
	matches  []domain.MessageMatch
	err      error

	listFilter   string
	listLimit    int
	historyRef   string
	historySince time.Time
	sendRef      string
	sendText     string
	searchQuery  string
	searchOpts   domain.SearchOptions
}

func (m *mockChatService) List(_ context.Context, filter string, limit int) ([]domain.Chat, error) {
	m.listFilter = filter
	m.listLimit = limit
	return m.chats, m.err
}

func (m *mockChatService) Resolve(_ context.Context, _ string) (*domain.Chat, error) {
	return m.chat, m.err
}

func (m *mockChatService) History(_ context.Context, ref string, _ int, since time.Time) ([]domain.ChatMessage, error) {
	m.historyRef = ref
	m.historySince = since
	return m.messages, m.err
}

func (m *mockChatService) Send(_ context.Context, ref, text string) (*domain.ChatMessage, error) {
	m.sendRef = ref
	m.sendText = text
	return m.sent, m.err
}

func (m *mockChatService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.MessageMatch, error) {
	m.searchQuery = query
	m.searchOpts = opts
	return m.matches, m.err
}

// mockCalendarService is a mock implementation of driving.CalendarService.
type mockCalendarService struct {
	events    []domain.Event
	event     *domain.Event
	calendars []domain.Calendar
	owned     *domain.Calendar
	err       error

	agendaOpts  domain.AgendaOptions
	createInput domain.CreateEventInput
	deletedID   string
}

func (m *mockCalendarService) Agenda(_ context.Context, opts domain.AgendaOptions) ([]domain.Event, error) {
	m.agendaOpts = opts
	return m.events, m.err
}

func (m *mockCalendarService) Get(_ context.Context, _ string) (*domain.Event, error) {
	return m.event, m.err
}

func (m *mockCalendarService) Calendars(_ context.Context) ([]domain.Calendar, error) {
	return m.calendars, m.err
}

func (m *mockCalendarService) FindCalendarByOwner(_ context.Context, _ string) (*domain.Calendar, error) {
	return m.owned, m.err
}

func (m *mockCalendarService) Create(_ context.Context, input domain.CreateEventInput) (*domain.Event, error) {
	m.createInput = input
	return m.event, m.err
}

func (m *mockCalendarService) Respond(_ context.Context, _ string, _ domain.EventResponse, _ string) error {
	return m.err
}

func (m *mockCalendarService) Delete(_ context.Context, id string) error {
	m.deletedID = id
	return m.err
}

// mockFilesService is a mock implementation of driving.FilesService.
type mockFilesService struct {
	drives []domain.Drive
	items  []domain.DriveItem
	item   *domain.DriveItem
	path   string
	err    error

	listDrive   string
	listPath    string
	listOpts    domain.FileListOptions
	searchDrive string
	searchQuery string
	searchOpts  domain.FileSearchOptions
}

func (m *mockFilesService) Drives(_ context.Context) ([]domain.Drive, error) {
	return m.drives, m.err
}

func (m *mockFilesService) List(_ context.Context, driveRef, path string, opts domain.FileListOptions) ([]domain.DriveItem, error) {
	m.listDrive = driveRef
	m.listPath = path
	m.listOpts = opts
	return m.items, m.err
}

func (m *mockFilesService) Search(_ context.Context, driveRef, query string, opts domain.FileSearchOptions) ([]domain.DriveItem, error) {
	m.searchDrive = driveRef
	m.searchQuery = query
	m.searchOpts = opts
	return m.items, m.err
}

func (m *mockFilesService) Download(_ context.Context, _, _, _ string) (string, error) {
	return m.path, m.err
}

func (m *mockFilesService) Upload(_ context.Context, _, _, _ string) (*domain.DriveItem, error) {
	return m.item, m.err
}

func (m *mockFilesService) Delete(_ context.Context, _, _ string) error {
	return m.err
}

func (m *mockFilesService) Mkdir(_ context.Context, _, _, _ string) (*domain.DriveItem, error) {
	return m.item, m.err
}

// mockContactsService is a mock implementation of driving.ContactsService.
type mockContactsService struct {
	contacts []domain.Contact
	people   []domain.Person
	person   *domain.Person
	err      error

	searchQuery string
}

func (m *mockContactsService) Contacts(_ context.Context) ([]domain.Contact, error) {
	return m.contacts, m.err
}

func (m *mockContactsService) People(_ context.Context) ([]domain.Person, error) {
	return m.people, m.err
}

func (m *mockContactsService) Search(_ context.Context, query string) ([]domain.Person, error) {
	m.searchQuery = query
	return m.people, m.err
}

func (m *mockContactsService) Resolve(_ context.Context, _ string) (*domain.Person, error) {
	return m.person, m.err
}

// mockRecordingsService is a mock implementation of driving.RecordingsService.
type mockRecordingsService struct {
	recordings []domain.DriveItem
	info       *domain.DriveItem
	transcript domain.Transcript
	raw        string
	path       string
	err        error

	listOpts     domain.RecordingListOptions
	searchQuery  string
	searchOpts   domain.RecordingListOptions
	transcriptID string
	rawID        string
}

func (m *mockRecordingsService) List(_ context.Context, opts domain.RecordingListOptions) ([]domain.DriveItem, error) {
	m.listOpts = opts
	return m.recordings, m.err
}

func (m *mockRecordingsService) Search(_ context.Context, query string, opts domain.RecordingListOptions) ([]domain.DriveItem, error) {
	m.searchQuery = query
	m.searchOpts = opts
	return m.recordings, m.err
}

func (m *mockRecordingsService) Info(_ context.Context, _ string) (*domain.DriveItem, error) {
	return m.info, m.err
}

func (m *mockRecordingsService) Download(_ context.Context, _, _ string) (string, error) {
	return m.path, m.err
}

func (m *mockRecordingsService) Transcript(_ context.Context, id string) (domain.Transcript, error) {
	m.transcriptID = id
	return m.transcript, m.err
}

func (m *mockRecordingsService) RawTranscript(_ context.Context, id string) (string, error) {
	m.rawID = id
	return m.raw, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	values map[string]any
	err    error
}

func (m *mockSettingsService) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockSettingsService) Set(_, _ string) error {
	return m.err
}

func (m *mockSettingsService) Unset(_ string) error {
	return m.err
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
	return "/tmp/o365/config.toml"
}
