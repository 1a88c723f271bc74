package config

type AppConfig struct {
	Server ServerConfig
	Ledger LedgerConfig
	Log    LogConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	ledgerCfg, err := LoadLedger()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server: serverCfg,
		Ledger: ledgerCfg,
		Log:    logCfg,
	}, nil
}

type BotConfig struct {
	Ledger LedgerConfig
	Poller PollerConfig
	Notify NotifyConfig
	Log    LogConfig
}

func LoadBotApp() (BotConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return BotConfig{}, err
	}
	ledgerCfg, err := LoadLedger()
	if err != nil {
		return BotConfig{}, err
	}
	pollerCfg, err := LoadPoller()
	if err != nil {
		return BotConfig{}, err
	}
	notifyCfg, err := LoadNotify()
	if err != nil {
		return BotConfig{}, err
	}
	return BotConfig{
		Ledger: ledgerCfg,
		Poller: pollerCfg,
		Notify: notifyCfg,
		Log:    logCfg,
	}, nil
}
