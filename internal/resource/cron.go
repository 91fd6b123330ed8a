package resource

// CronJob declares a system cron job dropped into /etc/cron.d/<Name>.
type CronJob struct {
	base
	Name     string
	Schedule string
	User     string
	Command  string
}

func (c *CronJob) Identity() ID { return ID{Kind: KindCronJob, Key: c.Name} }

func (c *CronJob) Path() string { return "/etc/cron.d/" + c.Name }

func parseCronJob(tree map[string]any, file, key string) (*CronJob, error) {
	c := &CronJob{}

	name, err := getString(tree, file, key, "name", true)
	if err != nil {
		return nil, err
	}
	if err := ValidCronJobName(name); err != nil {
		return nil, fieldError(file, key, "name", err.Error())
	}
	c.Name = name

	if c.Schedule, err = getString(tree, file, key, "schedule", true); err != nil {
		return nil, err
	}
	if c.Command, err = getString(tree, file, key, "command", true); err != nil {
		return nil, err
	}
	if c.User, err = getStringDefault(tree, file, key, "user", "root"); err != nil {
		return nil, err
	}

	ensure, err := getStringDefault(tree, file, key, "ensure", string(EnsurePresent))
	if err != nil {
		return nil, err
	}
	c.Ensure = Ensure(ensure)
	if !ValidEnsure(KindCronJob, c.Ensure) {
		return nil, fieldError(file, key, "ensure", "must be \"present\" or \"absent\"")
	}

	if c.Requires, err = getRequires(tree, file, key); err != nil {
		return nil, err
	}
	return c, nil
}
